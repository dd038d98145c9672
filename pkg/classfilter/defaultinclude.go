package classfilter

import (
	"archive/zip"
	"io"
	"strings"
)

// LaunchInspector abstracts reading a process's launch entry point and,
// if it names a packaged archive, that archive's manifest — the Go
// equivalent of AgentConfig.java's sun.java.command + JarFile.getManifest
// lookup. Swappable so the real mechanism (reading a packaged archive
// manifest) never entangles with the filter itself.
type LaunchInspector interface {
	// LaunchEntry returns the first token of the launch command, e.g.
	// an archive path or a fully-qualified launch class name.
	LaunchEntry() string
	// ManifestStartClass reads a "Start-Class" or "Main-Class" style
	// attribute from the archive at path. It returns "" if path does
	// not look like a readable archive or carries no such attribute.
	ManifestStartClass(path string) string
}

// DefaultInclude infers a base-package include pattern from insp's
// launch entry, following AgentConfig.inferIncludeFromStartup: prefer a
// packaged archive's Start-Class (Spring Boot convention) falling back to
// Main-Class, otherwise treat the entry itself as a launch class name.
// It returns "" when inference is impossible, matching the Java agent's
// "fail closed: require explicit include" policy.
func DefaultInclude(insp LaunchInspector) string {
	entry := strings.TrimSpace(insp.LaunchEntry())
	if entry == "" {
		return ""
	}

	if strings.HasSuffix(entry, ".jar") {
		if startClass := insp.ManifestStartClass(entry); startClass != "" {
			return classNameToPackageInclude(startClass)
		}
		return ""
	}

	// Class-launch mode (e.g. "java com.example.Main ..."): a dotted
	// name with no path separators.
	if strings.Contains(entry, ".") && !strings.ContainsAny(entry, "/\\") {
		return classNameToPackageInclude(entry)
	}
	return ""
}

func classNameToPackageInclude(fqcn string) string {
	c := strings.TrimSpace(fqcn)
	idx := strings.LastIndexByte(c, '.')
	if idx <= 0 {
		return ""
	}
	return c[:idx] + ".**"
}

// ZipManifestInspector is a LaunchInspector backed by a real executable
// jar on disk: it opens the archive, finds META-INF/MANIFEST.MF, and
// reads the Start-Class/Main-Class attribute textually (manifests are
// simple "Key: Value" lines, not a format worth a dependency for).
type ZipManifestInspector struct {
	// Entry is the launch entry point, typically os.Args[0].
	Entry string
}

// LaunchEntry implements LaunchInspector.
func (z ZipManifestInspector) LaunchEntry() string { return z.Entry }

// ManifestStartClass implements LaunchInspector.
func (z ZipManifestInspector) ManifestStartClass(path string) string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return ""
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != "META-INF/MANIFEST.MF" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		defer rc.Close()

		attrs := parseManifestAttrs(rc)
		if v := attrs["Start-Class"]; v != "" {
			return v
		}
		return attrs["Main-Class"]
	}
	return ""
}

func parseManifestAttrs(r io.Reader) map[string]string {
	attrs := map[string]string{}
	raw, err := io.ReadAll(r)
	if err != nil {
		return attrs
	}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		val := strings.TrimSpace(line[colon+1:])
		attrs[key] = val
	}
	return attrs
}
