package skills

import _ "embed"

//go:embed default_skills.csv
var defaultCSV []byte

// DefaultCSV is the stock skills list written by `jobharvest init`.
func DefaultCSV() []byte { return append([]byte(nil), defaultCSV...) }
