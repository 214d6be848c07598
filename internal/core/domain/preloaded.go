package domain

// Aliases are implemented inside the runtime and never fetched from the bundler.
var preloadedAliases = map[string]string{
	"@expo/snack-static":                       "0.0.1",
	"@expo/snack-static/react-native-logo.png": "0.0.1",
}

// coreModules are shipped with every runtime version, including those without a table below.
var coreModules = map[string]string{
	"expo":         "",
	"react":        "",
	"react-native": "",
}

var preloadedModules = map[string]map[string]string{
	"36.0.0": {
		"@expo/vector-icons":               "10.0.0",
		"@unimodules/core":                 "5.0.0",
		"@unimodules/react-native-adapter": "5.0.0",
		"expo":                             "36.0.0",
		"expo-asset":                       "8.0.0",
		"expo-auth-session":                "1.0.0",
		"expo-barcode-scanner":             "8.0.0",
		"expo-camera":                      "8.0.0",
		"expo-constants":                   "8.0.0",
		"expo-file-system":                 "8.0.0",
		"expo-font":                        "8.0.0",
		"expo-gl":                          "8.0.0",
		"expo-image-picker":                "8.0.0",
		"expo-linear-gradient":             "8.0.0",
		"react":                            "16.9.0",
		"react-native":                     "0.61.4",
		"prop-types":                       "15.7.2",
		"react-dom":                        "16.9.0",
		"react-native-web":                 "0.11.7",
		"react-native-gesture-handler":     "1.5.0",
		"unimodules-permissions-interface": "5.0.0",
	},
	"37.0.0": {
		"@expo/vector-icons":               "10.0.0",
		"@unimodules/core":                 "5.1.0",
		"@unimodules/react-native-adapter": "5.1.1",
		"expo":                             "37.0.0",
		"expo-asset":                       "8.1.1",
		"expo-barcode-scanner":             "8.1.0",
		"expo-camera":                      "8.2.0",
		"expo-constants":                   "9.0.0",
		"expo-file-system":                 "8.1.0",
		"expo-font":                        "8.1.0",
		"expo-gl":                          "8.1.0",
		"expo-image-picker":                "8.1.0",
		"expo-linear-gradient":             "8.1.0",
		"react":                            "16.9.0",
		"react-native":                     "0.61.4",
		"prop-types":                       "15.7.2",
		"react-dom":                        "16.9.0",
		"react-native-web":                 "0.11.7",
		"react-native-gesture-handler":     "1.6.0",
		"unimodules-permissions-interface": "5.1.0",
	},
	"38.0.0": {
		"expo":                             "38.0.1",
		"react":                            "16.11.0",
		"react-native":                     "0.62.2",
		"react-dom":                        "16.11.0",
		"react-native-web":                 "0.11.7",
		"expo-asset":                       "8.1.7",
		"react-native-gesture-handler":     "1.6.0",
		"@expo/vector-icons":               "10.0.0",
		"expo-barcode-scanner":             "8.2.1",
		"expo-constants":                   "9.1.1",
		"expo-file-system":                 "9.0.1",
		"react-native-view-shot":           "3.1.2",
		"expo-font":                        "8.2.1",
		"prop-types":                       "15.7.2",
		"@unimodules/core":                 "5.3.0",
		"@unimodules/react-native-adapter": "5.4.0",
		"unimodules-permissions-interface": "5.2.1",
		"expo-camera":                      "8.3.1",
		"expo-gl":                          "8.3.1",
		"expo-image-picker":                "8.3.0",
		"expo-linear-gradient":             "8.2.1",
	},
	"39.0.0": {
		"expo":                             "39.0.2",
		"react":                            "16.13.1",
		"react-native":                     "0.63.2",
		"react-dom":                        "16.13.1",
		"react-native-web":                 "0.13.12",
		"expo-asset":                       "8.2.0",
		"react-native-gesture-handler":     "1.7.0",
		"@expo/vector-icons":               "10.0.0",
		"expo-barcode-scanner":             "9.0.0",
		"expo-constants":                   "9.2.0",
		"expo-file-system":                 "9.2.0",
		"react-native-view-shot":           "3.1.2",
		"expo-font":                        "8.3.0",
		"prop-types":                       "15.7.2",
		"@unimodules/core":                 "5.5.0",
		"@unimodules/react-native-adapter": "5.6.0",
		"unimodules-permissions-interface": "5.3.0",
		"expo-camera":                      "9.0.0",
		"expo-gl":                          "9.1.1",
		"expo-image-picker":                "9.1.1",
		"expo-linear-gradient":             "8.3.0",
	},
}

// IsModulePreloaded reports whether the runtime for sdkVersion ships the module itself.
func IsModulePreloaded(name, sdkVersion string) bool {
	if _, ok := preloadedAliases[name]; ok {
		return true
	}
	table, ok := preloadedModules[sdkVersion]
	if !ok {
		_, ok = coreModules[name]
		return ok
	}
	_, ok = table[name]
	return ok
}

// PreloadedVersion returns the version the runtime bundles for a preloaded module.
func PreloadedVersion(name, sdkVersion string) (string, bool) {
	if v, ok := preloadedAliases[name]; ok {
		return v, true
	}
	v, ok := preloadedModules[sdkVersion][name]
	return v, ok
}
