package utils

// SafeFilename replaces every non-alphanumeric rune with an underscore so
// the result is usable in a Content-Disposition header.
func SafeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
