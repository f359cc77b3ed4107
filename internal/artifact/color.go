package artifact

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// namedColors holds the CSS color keywords accepted by background and
// border shorthands.
var namedColors = map[string]bool{
	"transparent": true, "currentcolor": true,
	"black": true, "silver": true, "gray": true, "grey": true, "white": true,
	"maroon": true, "red": true, "purple": true, "fuchsia": true, "green": true,
	"lime": true, "olive": true, "yellow": true, "navy": true, "blue": true,
	"teal": true, "aqua": true, "orange": true, "pink": true, "brown": true,
	"cyan": true, "magenta": true, "gold": true, "indigo": true, "violet": true,
	"coral": true, "crimson": true, "salmon": true, "tomato": true, "khaki": true,
	"beige": true, "ivory": true, "lavender": true, "tan": true, "turquoise": true,
	"lightblue": true, "lightgreen": true, "lightgray": true, "lightgrey": true,
	"darkblue": true, "darkgreen": true, "darkgray": true, "darkgrey": true,
	"darkred": true, "skyblue": true, "steelblue": true, "royalblue": true,
	"hotpink": true, "orchid": true, "plum": true, "chocolate": true,
	"firebrick": true, "forestgreen": true, "seagreen": true, "slategray": true,
	"whitesmoke": true, "rebeccapurple": true,
}

func isColor(t string) bool {
	t = strings.TrimSuffix(t, ",")
	if namedColors[t] {
		return true
	}
	return strings.HasPrefix(t, "rgb(") || strings.HasPrefix(t, "rgba(") ||
		strings.HasPrefix(t, "hsl(") || strings.HasPrefix(t, "hsla(") ||
		strings.HasPrefix(t, "#")
}

// hexToRGB converts #rgb, #rgba, #rrggbb and #rrggbbaa to rgb()/rgba().
func hexToRGB(hex string) (string, bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, c := range h {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		h = b.String()
	}
	if len(h) != 6 && len(h) != 8 {
		return "", false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return "", false
	}
	if len(h) == 6 {
		return formatRGB(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff), 1), true
	}
	return formatRGB(int(v>>24&0xff), int(v>>16&0xff), int(v>>8&0xff), float64(v&0xff)/255), true
}

// normalizeRGBFunc rewrites rgb()/rgba() with canonical spacing.
func normalizeRGBFunc(t string) (string, bool) {
	var inner string
	switch {
	case strings.HasPrefix(t, "rgb(") && strings.HasSuffix(t, ")"):
		inner = t[4 : len(t)-1]
	case strings.HasPrefix(t, "rgba(") && strings.HasSuffix(t, ")"):
		inner = t[5 : len(t)-1]
	default:
		return "", false
	}

	inner = strings.ReplaceAll(inner, "/", ",")
	fields := strings.FieldsFunc(inner, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 3 && len(fields) != 4 {
		return "", false
	}
	var ch [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return "", false
		}
		ch[i] = clamp(int(math.Round(n)), 0, 255)
	}
	alpha := 1.0
	if len(fields) == 4 {
		a := fields[3]
		pct := strings.HasSuffix(a, "%")
		n, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil {
			return "", false
		}
		if pct {
			n /= 100
		}
		alpha = math.Max(0, math.Min(1, n))
	}
	return formatRGB(ch[0], ch[1], ch[2], alpha), true
}

func formatRGB(r, g, b int, alpha float64) string {
	if alpha >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	a := strconv.FormatFloat(math.Round(alpha*1000)/1000, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, a)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
