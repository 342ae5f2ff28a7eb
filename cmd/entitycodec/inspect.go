/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"

	"github.com/suparena/entitycodec"
	"github.com/suparena/entitycodec/plugin"
	"github.com/suparena/entitycodec/registry"
	"github.com/suparena/entitycodec/store"
)

func listTags(w io.Writer, reg *registry.Registry) error {
	for _, e := range reg.Entries() {
		line := e.Tag
		if len(e.ExtraTags) > 0 {
			line += " (also " + strings.Join(e.ExtraTags, ", ") + ")"
		}
		if e.Type != nil {
			line += "\t" + e.Type.String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func listPlugins(w io.Writer, c *plugin.Catalog) error {
	for _, group := range c.Groups() {
		idx, err := c.Index(group)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s:\n", group)
		for _, id := range c.Identifiers(group) {
			u, _ := idx.Lookup(id)
			fmt.Fprintf(w, "  %s = %s\n", id, u.Name)
		}
	}
	return nil
}

// printTree writes one line per group and scalar, indented by depth. Groups show
// their type tag.
func printTree(w io.Writer, root store.Group) error {
	return walkTree(w, root, "/", 0)
}

func walkTree(w io.Writer, g store.Group, name string, depth int) error {
	indent := strings.Repeat("  ", depth)
	tag, ok, err := registry.ReadTag(g)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(w, "%s%s <%s>\n", indent, name, tag)
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, name)
	}

	keys := lo.Reject(g.Keys(), func(k string, _ int) bool { return k == registry.TypeTagKey })
	for _, k := range keys {
		if g.IsGroup(k) {
			child, err := g.OpenGroup(k)
			if err != nil {
				return err
			}
			if err := walkTree(w, child, k, depth+1); err != nil {
				return err
			}
			continue
		}
		v, err := g.Read(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  %s = %v (%T)\n", indent, k, v, v)
	}
	return nil
}

func dump(w io.Writer, e *entitycodec.Engine, root store.Group) error {
	v, err := e.Decode(root)
	if err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(jsonable(v), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// jsonable converts decoded values JSON cannot represent directly: maps with
// non-string keys get formatted keys and complex numbers become strings.
func jsonable(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = jsonable(x)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[fmt.Sprint(k)] = jsonable(x)
		}
		return out
	case []any:
		return lo.Map(t, func(x any, _ int) any { return jsonable(x) })
	case complex64, complex128:
		return fmt.Sprint(t)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() != reflect.Struct {
		return jsonable(rv.Elem().Interface())
	}
	return v
}
