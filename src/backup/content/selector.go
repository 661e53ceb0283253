package content

import "strings"

// contentRoot is the WordPress directory the include folders live under.
const contentRoot = "wp-content"

// alwaysIncluded are archived on every run alongside the selected folders:
// the site configuration and the file that pins the WordPress version.
var alwaysIncluded = []string{"wp-config.php", "wp-includes/version.php"}

// excludedPatterns are passed to the archiver so transient state never
// lands in a backup, whatever the include list says.
var excludedPatterns = []string{
	contentRoot + "/cache/*",
	contentRoot + "/tmp/*",
}

// excludedFolders are dropped from the include list itself. Exclusion wins
// over inclusion.
var excludedFolders = map[string]struct{}{
	"cache": {},
	"tmp":   {},
}

// selectFolders maps raw include entries to wp-content/<name>/ paths,
// trimming whitespace and dropping blanks and always-excluded names. An
// empty selection aborts the run: silently archiving nothing would look
// like a successful backup.
func selectFolders(entries []string) ([]string, error) {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := strings.TrimSpace(entry)
		if name == "" {
			continue
		}
		if _, skip := excludedFolders[name]; skip {
			continue
		}
		out = append(out, contentRoot+"/"+name+"/")
	}
	if len(out) == 0 {
		return nil, ErrNoFoldersSelected
	}
	return out, nil
}
