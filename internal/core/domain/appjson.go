package domain

const defaultIconURL = "https://d1wp6m56sqw74a.cloudfront.net/~assets/c9aa1be8a6a6fe81e20c3ac4106a2ebc"

// AppJSON is the app manifest submitted with artifact builds.
type AppJSON struct {
	Expo ExpoManifest `json:"expo"`
}

// ExpoManifest is the "expo" section of an app manifest.
type ExpoManifest struct {
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description"`
	Slug         string          `json:"slug"`
	Privacy      string          `json:"privacy"`
	SDKVersion   string          `json:"sdkVersion"`
	Version      string          `json:"version"`
	Orientation  string          `json:"orientation"`
	PrimaryColor string          `json:"primaryColor"`
	Icon         string          `json:"icon"`
	Loading      LoadingConfig   `json:"loading"`
	PackagerOpts PackagerOptions `json:"packagerOpts"`
	IOS          IOSConfig       `json:"ios"`
	Android      AndroidConfig   `json:"android"`
}

// LoadingConfig controls the splash shown while the app loads.
type LoadingConfig struct {
	Icon             string `json:"icon"`
	HideExponentText bool   `json:"hideExponentText"`
}

// PackagerOptions lists extra asset extensions for the packager.
type PackagerOptions struct {
	AssetExts []string `json:"assetExts"`
}

// IOSConfig holds iOS specific manifest fields.
type IOSConfig struct {
	SupportsTablet bool `json:"supportsTablet"`
}

// AndroidConfig holds Android specific manifest fields.
type AndroidConfig struct {
	Package     string   `json:"package"`
	Permissions []string `json:"permissions"`
	VersionCode int      `json:"versionCode"`
}

// GenerateAppJSON fills the default manifest template.
func GenerateAppJSON(description, sdkVersion string) AppJSON {
	return AppJSON{
		Expo: ExpoManifest{
			Description:  description,
			Slug:         "bold-pretzel",
			Privacy:      "unlisted",
			SDKVersion:   sdkVersion,
			Version:      "1.0.0",
			Orientation:  "portrait",
			PrimaryColor: "#cccccc",
			Icon:         defaultIconURL,
			Loading: LoadingConfig{
				Icon: defaultIconURL,
			},
			PackagerOpts: PackagerOptions{
				AssetExts: []string{"ttf", "mp4", "otf"},
			},
			IOS: IOSConfig{SupportsTablet: true},
			Android: AndroidConfig{
				Package:     "io.livepush.app",
				Permissions: []string{},
				VersionCode: 1,
			},
		},
	}
}
