package shape

import (
	"scrawl/asset"
	"scrawl/geom"
)

// embedUtil serves shapes that host an external widget fed by an asset: a
// data grid or a chart. They are always filled, can be bound to, and are not
// cloned.
func (r *Registry) embedUtil(t Type, name string) *Util {
	u := &Util{
		Type:                 t,
		DefaultSize:          geom.Pt(480, 320),
		CanTransform:         true,
		CanChangeAspectRatio: true,
		Bounds:               r.boxBounds,
		Transform:            r.transformBox,
		TransformSingle:      r.transformSingleBox,
	}
	u.normalizeStyle = func(st *Style) *Style {
		if st.IsFilled {
			return st
		}
		return st.With(StylePatch{IsFilled: Ref(true)})
	}
	u.Create = func(opts ...Option) *Shape { return r.create(u, name, opts) }
	u.Render = func(s *Shape) Drawable {
		d := baseDrawable(DrawEmbed, s, r.boxLocal(s))
		d.Size = s.Size
		d.Embed = r.embed(t, s)
		return d
	}
	return u
}

func (r *Registry) embed(t Type, s *Shape) *Embed {
	st := r.status(s.ID)
	// A status left over from a previous asset is not this shape's data.
	if s.AssetID == "" || (st.AssetID != "" && st.AssetID != s.AssetID) {
		st = asset.Status{State: asset.StateIdle}
	}
	e := &Embed{AssetID: s.AssetID, Status: st}
	if st.State != asset.StateReady {
		return e
	}
	switch t {
	case TypeGrid:
		g := asset.GridFromData(st.Data)
		e.Grid = &g
	case TypeChart:
		c := asset.ChartFromData(st.Data, s.Size.X, s.Size.Y)
		e.Chart = &c
	}
	return e
}
