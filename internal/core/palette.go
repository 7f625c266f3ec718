package core

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultColorScale is used when a chart names no scale.
const DefaultColorScale = "viridis"

// QualitativePalette colors discrete color splits, cycling when there are
// more groups than colors.
var QualitativePalette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// DiscreteColor returns the palette color for the i-th group.
func DiscreteColor(i int) string {
	return QualitativePalette[i%len(QualitativePalette)]
}

// colorScales holds the continuous scales as evenly spaced color stops.
var colorScales = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":  {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"inferno": {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"cividis": {"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838"},
	"blues":   {"rgb(247,251,255)", "rgb(222,235,247)", "rgb(198,219,239)", "rgb(158,202,225)", "rgb(107,174,214)", "rgb(66,146,198)", "rgb(33,113,181)", "rgb(8,81,156)", "rgb(8,48,107)"},
	"greens":  {"rgb(247,252,245)", "rgb(229,245,224)", "rgb(199,233,192)", "rgb(161,217,155)", "rgb(116,196,118)", "rgb(65,171,93)", "rgb(35,139,69)", "rgb(0,109,44)", "rgb(0,68,27)"},
	"reds":    {"rgb(255,245,240)", "rgb(254,224,210)", "rgb(252,187,161)", "rgb(252,146,114)", "rgb(251,106,74)", "rgb(239,59,44)", "rgb(203,24,29)", "rgb(165,15,21)", "rgb(103,0,13)"},
	"greys":   {"rgb(255,255,255)", "rgb(240,240,240)", "rgb(217,217,217)", "rgb(189,189,189)", "rgb(150,150,150)", "rgb(115,115,115)", "rgb(82,82,82)", "rgb(37,37,37)", "rgb(0,0,0)"},
	"rdbu":    {"rgb(103,0,31)", "rgb(178,24,43)", "rgb(214,96,77)", "rgb(244,165,130)", "rgb(253,219,199)", "rgb(247,247,247)", "rgb(209,229,240)", "rgb(146,197,222)", "rgb(67,147,195)", "rgb(33,102,172)", "rgb(5,48,97)"},
	"ylgnbu":  {"rgb(255,255,217)", "rgb(237,248,177)", "rgb(199,233,180)", "rgb(127,205,187)", "rgb(65,182,196)", "rgb(29,145,192)", "rgb(34,94,168)", "rgb(37,52,148)", "rgb(8,29,88)"},
	"ylorrd":  {"rgb(255,255,204)", "rgb(255,237,160)", "rgb(254,217,118)", "rgb(254,178,76)", "rgb(253,141,60)", "rgb(252,78,42)", "rgb(227,26,28)", "rgb(189,0,38)", "rgb(128,0,38)"},
}

// ColorScaleNames returns every accepted scale name, reversed variants
// included, sorted.
func ColorScaleNames() []string {
	names := make([]string, 0, 2*len(colorScales))
	for name := range colorScales {
		names = append(names, name, name+"_r")
	}
	sort.Strings(names)
	return names
}

// ColorScale resolves a scale name to Plotly colorscale stops
// ([[0, color], ..., [1, color]]). Names are case-insensitive; a "_r"
// suffix reverses the scale and "" selects DefaultColorScale.
func ColorScale(name string) ([][2]any, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultColorScale
	}

	reversed := strings.HasSuffix(key, "_r")
	colors, ok := colorScales[strings.TrimSuffix(key, "_r")]
	if !ok {
		return nil, fmt.Errorf("unknown color scale %q", name)
	}

	n := len(colors)
	stops := make([][2]any, n)
	for i := range colors {
		c := colors[i]
		if reversed {
			c = colors[n-1-i]
		}
		stops[i] = [2]any{float64(i) / float64(n-1), c}
	}
	return stops, nil
}
