package render

import "fmt"

const (
	kibibyte = 1 << 10
	mebibyte = 1 << 20
	gibibyte = 1 << 30
)

// FormatSize renders a byte count for progress output. Archives are usually
// megabytes to gigabytes, so those get two decimals; smaller values degrade
// to coarser units.
func FormatSize(n int64) string {
	switch {
	case n >= gibibyte:
		return fmt.Sprintf("%.2f GB", float64(n)/float64(gibibyte))
	case n >= mebibyte:
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mebibyte))
	case n >= kibibyte:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(kibibyte))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
