package combine

// ParseLODLevel returns the digit after the last "_lod" marker in name. The
// marker is matched ASCII case-insensitively.
func ParseLODLevel(name string) (int, bool) {
	for i := len(name) - 4; i >= 0; i-- {
		if name[i] != '_' || !equalFoldASCII(name[i+1:i+4], "lod") {
			continue
		}
		if i+4 >= len(name) {
			return 0, false
		}
		c := name[i+4]
		if c < '0' || c > '9' {
			return 0, false
		}
		return int(c - '0'), true
	}
	return 0, false
}

func equalFoldASCII(s, lower string) bool {
	for i := 0; i < len(lower); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}
