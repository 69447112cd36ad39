package registry

// VersionMap maps package names to a resolved version or Sentinel.
type VersionMap map[string]string

// Get returns the version for name, or Sentinel when it was never resolved.
func (m VersionMap) Get(name string) string {
	if version, ok := m[name]; ok && version != "" {
		return version
	}
	return Sentinel
}

// Spec renders name@version for an install command.
func (m VersionMap) Spec(name string) string {
	return name + "@" + m.Get(name)
}

// Resolved reports whether name has a concrete version rather than Sentinel.
func (m VersionMap) Resolved(name string) bool {
	return m.Get(name) != Sentinel
}
