package commands

// Kind is the parsed command type. Any type string not listed below parses to
// KindUnhandled.
type Kind int

const (
	KindUnhandled Kind = iota

	// informational kinds, answered by the spoken response alone
	KindGeneral
	KindGetTime
	KindGetDate
	KindGetDay
	KindGetMonth

	KindGoogleSearch
	KindCalculatorOpen
	KindInstagramOpen
	KindFacebookOpen
	KindWeatherShow
	KindYoutubeSearch
	KindYoutubePlay
)

var kindNames = map[Kind]string{
	KindGeneral:        "general",
	KindGetTime:        "get-time",
	KindGetDate:        "get-date",
	KindGetDay:         "get-day",
	KindGetMonth:       "get-month",
	KindGoogleSearch:   "google-search",
	KindCalculatorOpen: "calculator-open",
	KindInstagramOpen:  "instagram-open",
	KindFacebookOpen:   "facebook-open",
	KindWeatherShow:    "weather-show",
	KindYoutubeSearch:  "youtube-search",
	KindYoutubePlay:    "youtube-play",
}

var kindsByName = func() map[string]Kind {
	kinds := make(map[string]Kind, len(kindNames))
	for kind, name := range kindNames {
		kinds[name] = kind
	}
	return kinds
}()

// ParseKind maps a command type to its Kind. Matching is case-sensitive.
func ParseKind(commandType string) Kind {
	if kind, ok := kindsByName[commandType]; ok {
		return kind
	}
	return KindUnhandled
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unhandled"
}

// Types lists every recognized command type, in declaration order.
func Types() []string {
	types := make([]string, 0, len(kindNames))
	for kind := KindGeneral; kind <= KindYoutubePlay; kind++ {
		types = append(types, kindNames[kind])
	}
	return types
}
