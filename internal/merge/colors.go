package merge

// Color is the visual identity assigned to a rule for the merged view.
type Color struct {
	Background string
	Border     string
}

// palette is the fixed 10-color cycle used to disambiguate rules. Background
// is a light fill, border the saturated companion used for edges.
var palette = [10]Color{
	{Background: "#e3f2fd", Border: "#1976d2"}, // blue
	{Background: "#e8f5e9", Border: "#388e3c"}, // green
	{Background: "#fff3e0", Border: "#f57c00"}, // orange
	{Background: "#f3e5f5", Border: "#7b1fa2"}, // purple
	{Background: "#fce4ec", Border: "#c2185b"}, // pink
	{Background: "#e0f7fa", Border: "#0097a7"}, // cyan
	{Background: "#fffde7", Border: "#fbc02d"}, // yellow
	{Background: "#efebe9", Border: "#5d4037"}, // brown
	{Background: "#e8eaf6", Border: "#303f9f"}, // indigo
	{Background: "#ffebee", Border: "#d32f2f"}, // red
}

// ColorFor maps a rule's ordinal position in the overall input list to its
// palette color, cycling modulo the palette size. The mapping depends only
// on input order, so a rule keeps its color across re-merges of the same
// input set.
func ColorFor(ordinal int) Color {
	if ordinal < 0 {
		ordinal = 0
	}
	return palette[ordinal%len(palette)]
}
