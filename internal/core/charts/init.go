// Package charts holds the chart types offered by the analyzer. Each file
// registers its definitions with core.Register from init, so binaries and
// tests import the package for its side effects:
//
//	import _ "github.com/JonMunkholm/analyzer/internal/core/charts"
//
// The selector order is fixed by core.Charts, not by registration order.
package charts
