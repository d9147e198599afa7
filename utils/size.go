package utils

import "fmt"

// DataSize is an amount of bytes, printed with binary prefixes.
type DataSize float64

var dataSizeUnits = [...]string{"B", "KiB", "MiB", "GiB", "TiB"}

func (d DataSize) String() string {
	unit := 0
	for d >= 1024 && unit < len(dataSizeUnits)-1 {
		d /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", float64(d), dataSizeUnits[unit])
}
