package ir

type PrimitiveKind uint8

const (
	_ PrimitiveKind = iota
	PrimVoid
	PrimBool
	PrimChar
	PrimSChar
	PrimUChar
	// PrimChar32 is a unicode scalar value, carried as a 32-bit unsigned integer in C
	PrimChar32
	PrimFloat
	PrimDouble
	PrimVaList
	PrimPtrDiff
	PrimInteger
)

type IntKind uint8

const (
	_ IntKind = iota
	IntShort
	IntInt
	IntLong
	IntLongLong
	// IntSizeT is size_t/ssize_t
	IntSizeT
	// IntSize is usize/isize, pointer-sized
	IntSize
	IntB8
	IntB16
	IntB32
	IntB64
)

// PrimitiveInfo describes a built-in scalar type
type PrimitiveInfo struct {
	Kind   PrimitiveKind
	Int    IntKind
	Signed bool
}

// UnitName is the spelling of the unit type, which is void in C
const UnitName = "()"

var primitives = map[string]PrimitiveInfo{
	UnitName:    {Kind: PrimVoid},
	"c_void":    {Kind: PrimVoid},
	"bool":      {Kind: PrimBool},
	"c_char":    {Kind: PrimChar},
	"c_schar":   {Kind: PrimSChar},
	"c_uchar":   {Kind: PrimUChar},
	"char":      {Kind: PrimChar32},
	"c_float":   {Kind: PrimFloat},
	"f32":       {Kind: PrimFloat},
	"c_double":  {Kind: PrimDouble},
	"f64":       {Kind: PrimDouble},
	"VaList":    {Kind: PrimVaList},
	"ptrdiff_t": {Kind: PrimPtrDiff},

	"c_short":     {Kind: PrimInteger, Int: IntShort, Signed: true},
	"c_int":       {Kind: PrimInteger, Int: IntInt, Signed: true},
	"c_long":      {Kind: PrimInteger, Int: IntLong, Signed: true},
	"c_longlong":  {Kind: PrimInteger, Int: IntLongLong, Signed: true},
	"ssize_t":     {Kind: PrimInteger, Int: IntSizeT, Signed: true},
	"c_ushort":    {Kind: PrimInteger, Int: IntShort},
	"c_uint":      {Kind: PrimInteger, Int: IntInt},
	"c_ulong":     {Kind: PrimInteger, Int: IntLong},
	"c_ulonglong": {Kind: PrimInteger, Int: IntLongLong},
	"size_t":      {Kind: PrimInteger, Int: IntSizeT},

	"isize":     {Kind: PrimInteger, Int: IntSize, Signed: true},
	"intptr_t":  {Kind: PrimInteger, Int: IntSize, Signed: true},
	"usize":     {Kind: PrimInteger, Int: IntSize},
	"uintptr_t": {Kind: PrimInteger, Int: IntSize},

	"u8":       {Kind: PrimInteger, Int: IntB8},
	"uint8_t":  {Kind: PrimInteger, Int: IntB8},
	"u16":      {Kind: PrimInteger, Int: IntB16},
	"uint16_t": {Kind: PrimInteger, Int: IntB16},
	"u32":      {Kind: PrimInteger, Int: IntB32},
	"uint32_t": {Kind: PrimInteger, Int: IntB32},
	"u64":      {Kind: PrimInteger, Int: IntB64},
	"uint64_t": {Kind: PrimInteger, Int: IntB64},
	"i8":       {Kind: PrimInteger, Int: IntB8, Signed: true},
	"int8_t":   {Kind: PrimInteger, Int: IntB8, Signed: true},
	"i16":      {Kind: PrimInteger, Int: IntB16, Signed: true},
	"int16_t":  {Kind: PrimInteger, Int: IntB16, Signed: true},
	"i32":      {Kind: PrimInteger, Int: IntB32, Signed: true},
	"int32_t":  {Kind: PrimInteger, Int: IntB32, Signed: true},
	"i64":      {Kind: PrimInteger, Int: IntB64, Signed: true},
	"int64_t":  {Kind: PrimInteger, Int: IntB64, Signed: true},
}

// LookupPrimitive returns the description of the primitive spelled name,
// or false if name is not a known scalar
func LookupPrimitive(name string) (PrimitiveInfo, bool) {
	info, ok := primitives[name]
	return info, ok
}

// NewPrimitive returns the primitive spelled name, or nil if there is no such primitive
func NewPrimitive(name string) *Primitive {
	if _, ok := primitives[name]; !ok {
		return nil
	}
	return &Primitive{Name: name}
}

// CName is the spelling of the primitive in C
func (i PrimitiveInfo) CName() string {
	switch i.Kind {
	case PrimVoid:
		return "void"
	case PrimBool:
		return "bool"
	case PrimChar:
		return "char"
	case PrimSChar:
		return "signed char"
	case PrimUChar:
		return "unsigned char"
	case PrimChar32:
		return "uint32_t"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimVaList:
		return "va_list"
	case PrimPtrDiff:
		return "ptrdiff_t"
	case PrimInteger:
		return i.intCName()
	default:
		return "invalid"
	}
}

func (i PrimitiveInfo) intCName() string {
	signedOr := func(signed, unsigned string) string {
		if i.Signed {
			return signed
		}
		return unsigned
	}
	switch i.Int {
	case IntShort:
		return signedOr("short", "unsigned short")
	case IntInt:
		return signedOr("int", "unsigned int")
	case IntLong:
		return signedOr("long", "unsigned long")
	case IntLongLong:
		return signedOr("long long", "unsigned long long")
	case IntSizeT:
		return signedOr("ssize_t", "size_t")
	case IntSize:
		return signedOr("intptr_t", "uintptr_t")
	case IntB8:
		return signedOr("int8_t", "uint8_t")
	case IntB16:
		return signedOr("int16_t", "uint16_t")
	case IntB32:
		return signedOr("int32_t", "uint32_t")
	case IntB64:
		return signedOr("int64_t", "uint64_t")
	default:
		return "invalid"
	}
}

// nonZeroIntegers maps the names of the non-zero integer wrappers to the integer they wrap
var nonZeroIntegers = map[string]string{
	"NonZeroU8":    "u8",
	"NonZeroU16":   "u16",
	"NonZeroU32":   "u32",
	"NonZeroU64":   "u64",
	"NonZeroUSize": "usize",
	"NonZeroI8":    "i8",
	"NonZeroI16":   "i16",
	"NonZeroI32":   "i32",
	"NonZeroI64":   "i64",
	"NonZeroISize": "isize",
}

// NonZeroInteger returns the non-zeroable integer primitive a NonZero wrapper name stands for
func NonZeroInteger(wrapperName string) (*Primitive, bool) {
	name, ok := nonZeroIntegers[wrapperName]
	if !ok {
		return nil, false
	}
	return &Primitive{Name: name, NonZero: true}, true
}
