package widget

import (
	"errors"
	"regexp"
	"strings"
)

type Position string

const (
	BottomRight Position = "bottom-right"
	BottomLeft  Position = "bottom-left"
	TopRight    Position = "top-right"
	TopLeft     Position = "top-left"
)

const (
	DefaultPosition = BottomRight
	DefaultColor    = "#3498db"
)

var Positions = []Position{BottomRight, BottomLeft, TopRight, TopLeft}

var (
	ErrMissingWebsiteID = errors.New("widget: websiteId is required")
	ErrInvalidPosition  = errors.New("widget: unknown position")
	ErrInvalidColor     = errors.New("widget: invalid color")
)

// Config is what a host page passes to init.
type Config struct {
	WebsiteID string   `json:"websiteId"`
	Position  Position `json:"position,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// Normalize fills defaults and rejects values that would produce broken or
// injectable inline styles.
func (c Config) Normalize() (Config, error) {
	if c.WebsiteID == "" {
		return c, ErrMissingWebsiteID
	}

	if c.Position == "" {
		c.Position = DefaultPosition
	}
	if !c.Position.Valid() {
		return c, ErrInvalidPosition
	}

	c.Color = strings.TrimSpace(c.Color)
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if !ValidColor(c.Color) {
		return c, ErrInvalidColor
	}

	return c, nil
}

func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Edges returns the vertical and horizontal viewport edges the trigger is pinned to.
func (p Position) Edges() (vertical, horizontal string) {
	v, h, _ := strings.Cut(string(p), "-")
	return v, h
}

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor = regexp.MustCompile(`^(?:rgba?|hsla?)\(\s*[-+0-9a-z.%\s,/]+\)$`)
)

func ValidColor(s string) bool {
	if hexColor.MatchString(s) || funcColor.MatchString(s) {
		return true
	}
	_, ok := namedColors[strings.ToLower(s)]
	return ok
}

var namedColors = map[string]struct{}{
	"transparent": {}, "currentcolor": {},
	"aliceblue": {}, "antiquewhite": {}, "aqua": {}, "aquamarine": {}, "azure": {},
	"beige": {}, "bisque": {}, "black": {}, "blanchedalmond": {}, "blue": {},
	"blueviolet": {}, "brown": {}, "burlywood": {}, "cadetblue": {}, "chartreuse": {},
	"chocolate": {}, "coral": {}, "cornflowerblue": {}, "cornsilk": {}, "crimson": {},
	"cyan": {}, "darkblue": {}, "darkcyan": {}, "darkgoldenrod": {}, "darkgray": {},
	"darkgreen": {}, "darkgrey": {}, "darkkhaki": {}, "darkmagenta": {}, "darkolivegreen": {},
	"darkorange": {}, "darkorchid": {}, "darkred": {}, "darksalmon": {}, "darkseagreen": {},
	"darkslateblue": {}, "darkslategray": {}, "darkslategrey": {}, "darkturquoise": {}, "darkviolet": {},
	"deeppink": {}, "deepskyblue": {}, "dimgray": {}, "dimgrey": {}, "dodgerblue": {},
	"firebrick": {}, "floralwhite": {}, "forestgreen": {}, "fuchsia": {}, "gainsboro": {},
	"ghostwhite": {}, "gold": {}, "goldenrod": {}, "gray": {}, "grey": {},
	"green": {}, "greenyellow": {}, "honeydew": {}, "hotpink": {}, "indianred": {},
	"indigo": {}, "ivory": {}, "khaki": {}, "lavender": {}, "lavenderblush": {},
	"lawngreen": {}, "lemonchiffon": {}, "lightblue": {}, "lightcoral": {}, "lightcyan": {},
	"lightgoldenrodyellow": {}, "lightgray": {}, "lightgreen": {}, "lightgrey": {}, "lightpink": {},
	"lightsalmon": {}, "lightseagreen": {}, "lightskyblue": {}, "lightslategray": {}, "lightslategrey": {},
	"lightsteelblue": {}, "lightyellow": {}, "lime": {}, "limegreen": {}, "linen": {},
	"magenta": {}, "maroon": {}, "mediumaquamarine": {}, "mediumblue": {}, "mediumorchid": {},
	"mediumpurple": {}, "mediumseagreen": {}, "mediumslateblue": {}, "mediumspringgreen": {}, "mediumturquoise": {},
	"mediumvioletred": {}, "midnightblue": {}, "mintcream": {}, "mistyrose": {}, "moccasin": {},
	"navajowhite": {}, "navy": {}, "oldlace": {}, "olive": {}, "olivedrab": {},
	"orange": {}, "orangered": {}, "orchid": {}, "palegoldenrod": {}, "palegreen": {},
	"paleturquoise": {}, "palevioletred": {}, "papayawhip": {}, "peachpuff": {}, "peru": {},
	"pink": {}, "plum": {}, "powderblue": {}, "purple": {}, "rebeccapurple": {},
	"red": {}, "rosybrown": {}, "royalblue": {}, "saddlebrown": {}, "salmon": {},
	"sandybrown": {}, "seagreen": {}, "seashell": {}, "sienna": {}, "silver": {},
	"skyblue": {}, "slateblue": {}, "slategray": {}, "slategrey": {}, "snow": {},
	"springgreen": {}, "steelblue": {}, "tan": {}, "teal": {}, "thistle": {},
	"tomato": {}, "turquoise": {}, "violet": {}, "wheat": {}, "white": {},
	"whitesmoke": {}, "yellow": {}, "yellowgreen": {},
}
