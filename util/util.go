package util

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const KiB = 1024
const MiB = KiB * 1024
const GiB = MiB * 1024

func FormatBytes(bytes int64) string {
	if bytes < KiB {
		return fmt.Sprintf("%dB", bytes)
	} else if bytes < MiB {
		return fmt.Sprintf("%.1fKiB", float64(bytes)/KiB)
	} else if bytes < GiB {
		return fmt.Sprintf("%.1fMiB", float64(bytes)/MiB)
	} else {
		return fmt.Sprintf("%.1fGiB", float64(bytes)/GiB)
	}
}

var unsafeFileChars = regexp.MustCompile(`[\/\\:\*\?"<>\|\p{C}]`)

// SanitizeFileName replaces characters that are not allowed in file names.
func SanitizeFileName(name string) string {
	name = unsafeFileChars.ReplaceAllString(name, "-")
	return strings.Trim(name, " .")
}

// URLSlug derives a file-friendly name from a URL: the last non-numeric path
// segment, or the host with dots replaced when the path has none.
func URLSlug(u *url.URL) string {
	segments := strings.Split(u.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		segment := segments[i]
		if segment != "" && !isNumber(segment) {
			return SanitizeFileName(segment)
		}
	}

	host := strings.TrimPrefix(u.Host, "www.")
	return strings.ReplaceAll(host, ".", "-")
}

func isNumber(str string) bool {
	_, err := strconv.ParseFloat(str, 64)
	return err == nil
}
