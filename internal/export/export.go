package export

// Row is one line of a plot's item list, in stage order.
type Row struct {
	Position int
	Item     string
	Label    string
	Category string
	Section  string
	X        float64
	Y        float64
	Rotation float64
	Scale    float64
}

// Document is everything an exporter needs: the plot name, its item
// rows, and an optional pre-rendered stage image for formats that can
// embed one.
type Document struct {
	PlotName string
	Rows     []Row
	StagePNG []byte
}

var columnHeaders = []string{"#", "Item", "Label", "Category", "Section", "X", "Y", "Rotation", "Scale"}
