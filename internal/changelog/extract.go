package changelog

import "regexp"

// Extraction is the tagged result of applying the release-title gate to a
// pull request title. Matched is false when the title is not a release title;
// callers must stop the pipeline without error in that case. Version may be
// empty even when Matched is true, which downstream treats as a no-version
// heading rather than a failure.
type Extraction struct {
	Matched  bool
	RawTitle string
	Version  string
}

// ExtractVersion applies the title pattern as a gate and, on match, pulls the
// version string out of the title with the version pattern. The first
// capturing group wins; a pattern without groups contributes its whole match.
func ExtractVersion(title string, titlePattern, versionPattern *regexp.Regexp) Extraction {
	if !titlePattern.MatchString(title) {
		return Extraction{Matched: false, RawTitle: title}
	}

	ex := Extraction{Matched: true, RawTitle: title}

	m := versionPattern.FindStringSubmatch(title)
	if m == nil {
		return ex
	}
	if len(m) > 1 && m[1] != "" {
		ex.Version = m[1]
	} else {
		ex.Version = m[0]
	}
	return ex
}
