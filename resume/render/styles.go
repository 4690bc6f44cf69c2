package render

// TextStyle captures the formatting applied to one kind of resume text.
type TextStyle struct {
	Bold   bool
	Italic bool
	Size   float64
	Color  string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	BodyColor    = "374151"
	MetaColor    = "6B7280"
	NameSize     = 20
	HeadingSize  = 12
	BodySize     = 10
	MetaSize     = 9
)

// StyleMap centralizes the formatting for key resume elements. Both
// renderers read it so their output looks alike.
var StyleMap = map[string]TextStyle{
	"name": {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
	},
	"title": {
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	"sectionHeading": {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	"roleLine": {
		Bold:  true,
		Size:  BodySize,
		Color: NameColor,
	},
	"meta": {
		Italic: true,
		Size:   MetaSize,
		Color:  MetaColor,
	},
	"body": {
		Size:  BodySize,
		Color: BodyColor,
	},
}

func style(name string) TextStyle {
	if s, ok := StyleMap[name]; ok {
		return s
	}
	return StyleMap["body"]
}

// rgb decodes a six digit hex color; malformed input yields black.
func rgb(hex string) (int, int, int) {
	if len(hex) != 6 {
		return 0, 0, 0
	}
	var v [3]int
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(hex[2*i])
		lo, ok2 := hexDigit(hex[2*i+1])
		if !ok1 || !ok2 {
			return 0, 0, 0
		}
		v[i] = hi<<4 | lo
	}
	return v[0], v[1], v[2]
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}
