/*
Package entitycodec persists Go values into hierarchical stores and rebuilds them later.

Every group the engine writes carries a type_tag naming the codec that wrote it.
Built-in codecs cover numbers, strings, byte slices, booleans, nil, maps and
slices; application types subscribe under their own stable tag:

	type Point struct{ X, Y float64 }

	func (p Point) ToStore(h *entitycodec.Handle) error {
	    if err := h.Set("x", p.X); err != nil {
	        return err
	    }
	    return h.Set("y", p.Y)
	}

	func (p *Point) FromStore(h *entitycodec.Handle, kw entitycodec.Kwargs) (err error) {
	    if p.X, err = entitycodec.Get[float64](h, "x"); err != nil {
	        return err
	    }
	    p.Y, err = entitycodec.Get[float64](h, "y")
	    return err
	}

	func init() {
	    entitycodec.MustSubscribe[Point]("geo.Point", entitycodec.WithExtraTags("geo.OldPoint"))
	}

	err := entitycodec.Save(map[string]any{"origin": Point{}}, "points.ec")
	v, err := entitycodec.Load("points.ec") // map[string]any{"origin": &Point{}}

Structs that only hold plain attributes can embed SimpleMapping instead of
writing the two methods.

When a tag or a type has no codec, the engine asks the plugin catalog for the
unit covering the longest dotted prefix of the tag or type name, loads it and
retries once. See package plugin.

Key Features:
  - Stable type tags with legacy aliases
  - Lossless round trips of sized numeric kinds and arbitrary map keys
  - Lazy codec plugins
  - File, in-memory and DynamoDB stores
  - Semantic error types, see package errors
*/
package entitycodec
