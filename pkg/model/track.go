package model

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Track describes the centerline of the circuit.
// Length may be omitted by the dataset, it is derived from Points in that case.
type Track struct {
	Points []Point `json:"points" yaml:"points"`
	Length float64 `json:"length" yaml:"length"`
}
