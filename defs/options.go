package defs

// command line option names
const (
	OptionHelp           = "help"
	OptionVersion        = "version"
	OptionVersionAlt     = "v"
	OptionNumberTests    = "number-tests"
	OptionNumberTestsAlt = "n"
	OptionCSV            = "csv"
	OptionCSVAlt         = "c"
	OptionCSVDelimiter   = "csv-delimiter"
	OptionJSON           = "json"
	OptionUseCached      = "use-cached"
	OptionUseCachedAlt   = "u"
	OptionCache          = "cache"
	OptionCountry        = "server-country"
	OptionCountryAlt     = "s"
	OptionCountryCode    = "server-country-code"
	OptionCountryCodeAlt = "o"
	OptionMaxCandidates  = "max-candidates"
	OptionList           = "list"
	OptionListAlt        = "l"
	OptionICMP           = "icmp"
	OptionTimeout        = "timeout"
	OptionSource         = "source"
	OptionInterface      = "interface"
	OptionInterfaceAlt   = "I"
	OptionTuning         = "tuning"
	OptionDebug          = "debug"
)
