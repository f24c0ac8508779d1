// Package arxiv provides identifier handling for arXiv-style paper ids.
package arxiv

// StripVersion maps a raw identifier to its canonical, versionless form:
// "1705.01234v2" becomes "1705.01234". Identifiers without a trailing
// version suffix pass through unchanged. Two identifiers differing only by
// version suffix denote the same paper, so every store boundary applies
// this before reading or writing.
func StripVersion(id string) string {
	i := len(id) - 1
	for i >= 0 && id[i] >= '0' && id[i] <= '9' {
		i--
	}
	if i >= 0 && i < len(id)-1 && id[i] == 'v' {
		return id[:i]
	}
	return id
}
