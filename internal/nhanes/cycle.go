// Package nhanes holds survey-cycle utilities and derived-metric
// helpers for NHANES laboratory data.
package nhanes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// cycle letter suffixes used in NHANES data file names (e.g. PSTPOL_J
// for 2017-2018).
var cycleSuffixes = map[string]string{
	"1999-2000": "A",
	"2001-2002": "B",
	"2003-2004": "C",
	"2005-2006": "D",
	"2007-2008": "E",
	"2009-2010": "F",
	"2011-2012": "G",
	"2013-2014": "H",
	"2015-2016": "I",
	"2017-2018": "J",
	"2019-2020": "K",
	"2021-2022": "L",
}

// ParseCycleYears splits a survey cycle label like "2017-2018" into
// its start and end years. Malformed labels are an error, never a
// silent zero.
func ParseCycleYears(cycle string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(cycle), "-")
	if len(parts) != 2 {
		return 0, 0, eris.Errorf("nhanes: malformed cycle %q", cycle)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, eris.Wrapf(err, "nhanes: cycle %q start year", cycle)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, eris.Wrapf(err, "nhanes: cycle %q end year", cycle)
	}
	if end != start+1 {
		return 0, 0, eris.Errorf("nhanes: cycle %q spans %d years, expected 2", cycle, end-start+1)
	}
	return start, end, nil
}

// CycleSuffix returns the data file letter suffix for a cycle label.
func CycleSuffix(cycle string) (string, error) {
	suffix, ok := cycleSuffixes[strings.TrimSpace(cycle)]
	if !ok {
		return "", eris.Errorf("nhanes: no file suffix known for cycle %q", cycle)
	}
	return suffix, nil
}

// CycleLabel formats a start year as the canonical cycle label.
func CycleLabel(startYear int) string {
	return fmt.Sprintf("%d-%d", startYear, startYear+1)
}
