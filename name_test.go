package minizip

import "testing"

func TestValidateArchivePath(t *testing.T) {
	valid := []string{
		"a.txt",
		"dir/sub/file.txt",
		"weird..name.txt",
		"a/..b/c",
	}
	for _, name := range valid {
		if err := validateArchivePath(name); err != nil {
			t.Errorf("validateArchivePath(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"/etc/passwd",
		`\windows\system32`,
		"a\\b",
		"../escape",
		"dir/../escape",
		"dir/..",
	}
	for _, name := range invalid {
		if err := validateArchivePath(name); err == nil {
			t.Errorf("validateArchivePath(%q) = nil, want error", name)
		}
	}
}
