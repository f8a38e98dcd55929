package sensor

// Kind is a sensor type. Its string value is the token the remote API
// uses as a key and must match exactly.
type Kind string

const (
	Temperature Kind = "temp"
	Humidity    Kind = "humedad"
	AirQuality  Kind = "calidad"
)

// KindCount is the number of sensor kinds.
const KindCount = 3

// Kinds lists the sensor kinds in display order.
var Kinds = []Kind{Temperature, Humidity, AirQuality}

// kindInfo maps each kind to its display metadata and slider bounds.
var kindInfo = map[Kind]struct {
	label string
	unit  string
	lo    float64
	hi    float64
	step  float64
}{
	Temperature: {"Temperature", "°C", 0, 40, 1},
	Humidity:    {"Humidity", "%", 0, 100, 1},
	AirQuality:  {"Air quality", "ppm", 0, 1000, 10},
}

// Valid reports whether k is a known sensor kind.
func (k Kind) Valid() bool {
	_, ok := kindInfo[k]
	return ok
}

// Label returns a human-readable name.
func (k Kind) Label() string {
	if info, ok := kindInfo[k]; ok {
		return info.label
	}
	return string(k)
}

// Unit returns the display unit.
func (k Kind) Unit() string {
	return kindInfo[k].unit
}

// Bounds returns the absolute range a threshold slider may span.
// Unknown kinds fall back to [0,100].
func (k Kind) Bounds() Range {
	info, ok := kindInfo[k]
	if !ok {
		return Range{Min: 0, Max: 100}
	}
	return Range{Min: info.lo, Max: info.hi}
}

// Step returns the fine drag increment for a threshold slider.
func (k Kind) Step() float64 {
	if info, ok := kindInfo[k]; ok {
		return info.step
	}
	return 1
}

// Next cycles through Kinds.
func (k Kind) Next() Kind {
	return Kinds[(k.Index()+1)%len(Kinds)]
}

// Index returns the position of k in Kinds, or -1.
func (k Kind) Index() int {
	for i, kk := range Kinds {
		if kk == k {
			return i
		}
	}
	return -1
}
