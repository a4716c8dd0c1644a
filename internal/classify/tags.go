package classify

import (
	"regexp"
	"strings"
)

// Token sets below follow release naming conventions observed across scene,
// P2P, and streaming rips. Checked case-insensitively after punctuation
// normalization.

var releaseGroupTokens = []string{
	"yts", "yify", "rarbg", "etrg", "evo", "tgx", "galaxyrg", "sparks",
	"psa", "cmrg", "ntb", "fgt", "mkvcage", "rovers", "ion10", "afg",
	"pahe", "hdhub4u", "vegamovies", "moviesmod", "katmoviehd", "tamilrockers",
	"filmyzilla", "mkvking", "ctrlhd", "don", "chd", "wiki",
}

var qualityTokens = []string{
	"480p", "480i", "576p", "576i", "720p", "720i", "1080p", "1080i",
	"2160p", "4k", "uhd", "ultrahd", "hd", "sd",
	"bluray", "bdrip", "brrip", "bdremux", "hdrip", "dvdrip", "dvdscr", "dvd",
	"webrip", "webdl", "web", "hdtv", "pdtv", "tvrip", "cam", "hdcam",
	"camrip", "telesync", "telecine", "screener", "scr",
	"remux", "proper", "repack", "internal", "limited", "extended",
	"unrated", "theatrical", "remastered", "imax",
	"hdr", "hdr10", "dolbyvision", "dovi", "sdr", "hlg",
}

var codecTokens = []string{
	"x264", "x265", "h264", "h265", "hevc", "avc", "av1", "xvid", "divx",
	"vp9", "mpeg2", "mpeg4", "10bit", "8bit", "hi10p",
	"aac", "ac3", "eac3", "dts", "dtshd", "truehd", "atmos", "flac",
	"mp3", "opus", "ddp", "dd", "6ch", "2ch",
}

// searchJunkTokens extends the base dictionary for metadata search queries,
// where stray language, subtitle, and platform markers poison results.
var searchJunkTokens = []string{
	"hindi", "english", "tamil", "telugu", "malayalam", "kannada", "bengali",
	"punjabi", "marathi", "gujarati", "urdu", "korean", "japanese", "chinese",
	"french", "spanish", "german", "italian", "russian", "portuguese",
	"dual", "multi", "dubbed", "dub", "subbed", "esub", "esubs", "msub",
	"msubs", "subs", "sub", "hc", "org", "hq", "untouched",
	"amzn", "netflix", "nf", "dsnp", "hotstar", "zee5", "sonyliv",
	"jiocinema", "jc", "hulu", "hmax", "atvp", "pcok", "mx", "voot",
	"51", "71", "20", "640kbps", "384kbps", "224kbps", "128kbps",
	"audio", "complete", "combined", "uncut",
}

var (
	tagSet        = buildTokenSet(releaseGroupTokens, qualityTokens, codecTokens)
	searchJunkSet = buildTokenSet(releaseGroupTokens, qualityTokens, codecTokens, searchJunkTokens)

	tagWordRx = buildTagWordRx()

	nonAlnumRx = regexp.MustCompile(`[^a-z0-9]+`)
)

func buildTokenSet(groups ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range groups {
		for _, token := range group {
			set[normalizeTagToken(token)] = struct{}{}
		}
	}
	return set
}

func buildTagWordRx() *regexp.Regexp {
	var all []string
	all = append(all, releaseGroupTokens...)
	all = append(all, qualityTokens...)
	all = append(all, codecTokens...)
	quoted := make([]string, 0, len(all))
	for _, token := range all {
		quoted = append(quoted, regexp.QuoteMeta(token))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// normalizeTagToken lowercases a token and strips everything except letters
// and digits, so "WEB-DL" and "web.dl" compare equal.
func normalizeTagToken(token string) string {
	return nonAlnumRx.ReplaceAllString(strings.ToLower(token), "")
}

// IsTag reports whether a token belongs to the release tag dictionary.
func IsTag(token string) bool {
	normalized := normalizeTagToken(token)
	if normalized == "" {
		return false
	}
	_, ok := tagSet[normalized]
	return ok
}

// isSearchJunk reports whether a token should be dropped from metadata
// search queries. Superset of the base tag dictionary.
func isSearchJunk(token string) bool {
	normalized := normalizeTagToken(token)
	if normalized == "" {
		return true
	}
	_, ok := searchJunkSet[normalized]
	return ok
}
