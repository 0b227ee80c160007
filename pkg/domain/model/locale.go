package model

import "github.com/m-mizutani/goerr/v2"

// Locale selects the language of chart titles and status messages
type Locale string

const (
	LocaleZH Locale = "zh"
	LocaleEN Locale = "en"

	DefaultLocale = LocaleZH
)

// Messages holds the localized texts of one locale
type Messages struct {
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	Loading     string
	ErrorPrefix string
}

var messages = map[Locale]Messages{
	LocaleZH: {
		Title:       "各服务漏洞数量统计（按月分组）",
		XAxisTitle:  "服务 - 月份",
		YAxisTitle:  "漏洞数量",
		Loading:     "加载中...",
		ErrorPrefix: "加载数据失败: ",
	},
	LocaleEN: {
		Title:       "Vulnerabilities per service (grouped by month)",
		XAxisTitle:  "Service - Month",
		YAxisTitle:  "Vulnerabilities",
		Loading:     "Loading...",
		ErrorPrefix: "Failed to load data: ",
	},
}

// ParseLocale parses a locale name; empty means the default locale
func ParseLocale(s string) (Locale, error) {
	if s == "" {
		return DefaultLocale, nil
	}
	l := Locale(s)
	if _, ok := messages[l]; !ok {
		return "", goerr.New("unsupported locale", goerr.V("locale", s))
	}
	return l, nil
}

// Messages returns the texts of the locale, falling back to the default locale
func (l Locale) Messages() Messages {
	if m, ok := messages[l]; ok {
		return m
	}
	return messages[DefaultLocale]
}

// FailureMessage returns the status text shown when a run fails
func (l Locale) FailureMessage(err error) string {
	return l.Messages().ErrorPrefix + err.Error()
}
