package desktop

import "fmt"

// PadNames returns names extended with synthesized "vdeskNN" entries so that
// it holds at least count names. Names beyond count are kept.
func PadNames(names []string, count int) []string {
	out := make([]string, len(names), max(len(names), count))
	copy(out, names)
	for i := len(names); i < count; i++ {
		out = append(out, SyntheticName(i))
	}
	return out
}

// SyntheticName is the fallback label for a desktop the window manager did not name.
func SyntheticName(index int) string {
	return fmt.Sprintf("vdesk%02d", index)
}
