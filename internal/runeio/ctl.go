package runeio

import "fmt"

// C0Names are the classic ASCII control character names, indexed by byte.
var C0Names = [32]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "NL", "VT", "NP", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// C1Names are the extended ISO-8859 control character names, indexed by byte
// less 0x80.
var C1Names = [32]string{
	"PAD", "HOP", "BPH", "NBH", "IND", "NEL", "SSA", "ESA",
	"HTS", "HTJ", "VTS", "PLD", "PLU", "RI", "SS2", "SS3",
	"DCS", "PU1", "PU2", "STS", "CCH", "MW", "SPA", "EPA",
	"SOS", "SGCI", "SCI", "CSI", "ST", "OSC", "PM", "APC",
}

// Mnemonic returns a printable form of a single byte: its character for
// printable ASCII, its bracketed control name for C0 and C1 controls, space,
// and delete, or an escaped hex form otherwise.
func Mnemonic(b byte) string {
	switch {
	case b < 0x20:
		return "<" + C0Names[b] + ">"
	case b == 0x20:
		return "<SP>"
	case b == 0x7f:
		return "<DEL>"
	case b < 0x7f:
		return string(rune(b))
	case b <= 0x9f:
		return "<" + C1Names[b-0x80] + ">"
	}
	return fmt.Sprintf("\\x%02x", b)
}
