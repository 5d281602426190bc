package dbf

import "fmt"

// Version codes found in the first header byte.
const (
	FoxBase      byte = 0x02
	FoxBasePlus  byte = 0x03
	DBase3       byte = 0x03
	DBase3Memo   byte = 0x83
	DBase4       byte = 0x04
	DBase4Memo   byte = 0x8B
	DBase5       byte = 0x05
	FoxPro2Memo  byte = 0xF5
	VisualFoxPro byte = 0x30
)

// VersionName returns a human readable product name for a version code.
func VersionName(code byte) string {
	switch code {
	case FoxBase:
		return "FoxBase"
	case FoxBasePlus, DBase3Memo:
		return "FoxBase+/dBASE III+"
	case DBase4, DBase4Memo:
		return "dBASE IV"
	case DBase5:
		return "dBASE 5.0"
	case VisualFoxPro:
		return "Visual FoxPro"
	case FoxPro2Memo:
		return "FoxPro 2.0"
	default:
		return fmt.Sprintf("Unknown (code 0x%02X)", code)
	}
}
