// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Observatory name catalog, label upgrade after fetch, data tab
// 0.2.0 - Prometheus metrics on the proxy, viper config, headless modes
// 0.1.0 - Initial release: query form, animated orbit scene, SSC proxy
