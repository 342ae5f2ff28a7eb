/*
Package plugin loads codec support on demand.

Codec packages advertise themselves as entry points: an identifier, the dotted
prefix of the type tags or Go type names they handle, mapped to a Unit whose
Load function registers the codecs. Two groups exist: LoadGroup, consulted when
a stored tag is unknown, and SaveGroup, consulted when a value has no codec.

	plugin.Default().Install(plugin.LoadGroup, "geo", geoUnit)

	r := plugin.NewResolver(plugin.Cached(plugin.Default()), plugin.LoadGroup, reg)
	prefix, ok, err := r.Resolve("geo.shapes.Polygon") // tries geo.shapes.Polygon, geo.shapes, geo

Entry points can also be declared in a YAML manifest with ParseManifest and
installed into a Catalog from a set of compiled-in units.
*/
package plugin
