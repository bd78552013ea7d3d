package layout

import "github.com/matzehuels/evdash/pkg/hierarchy"

// wnode carries the per-node bookkeeping of the Buchheim walk.
type wnode struct {
	src      *hierarchy.Node
	parent   *wnode
	children []*wnode

	ancestor *wnode // A: default ancestor of this node's children
	a        *wnode // ancestor pointer used by apportion
	thread   *wnode // t
	z        float64
	m        float64
	c        float64
	s        float64
	i        int

	x float64
}

// wrap builds the walk tree over the visible nodes and hangs it below a
// sentinel so that the root has a parent like every other node.
func wrap(root *hierarchy.Node) *wnode {
	sentinel := &wnode{}
	var build func(n *hierarchy.Node, parent *wnode, i int) *wnode
	build = func(n *hierarchy.Node, parent *wnode, i int) *wnode {
		w := &wnode{src: n, parent: parent, i: i}
		w.a = w
		kids := n.Children()
		w.children = make([]*wnode, len(kids))
		for j, c := range kids {
			w.children[j] = build(c, w, j)
		}
		return w
	}
	r := build(root, sentinel, 0)
	sentinel.children = []*wnode{r}
	return r
}

func separation(a, b *wnode) float64 {
	if a.src.Parent() == b.src.Parent() {
		return 1
	}
	return 2
}

func visitAfter(v *wnode, fn func(*wnode)) {
	for _, c := range v.children {
		visitAfter(c, fn)
	}
	fn(v)
}

func visitBefore(v *wnode, fn func(*wnode)) {
	fn(v)
	for _, c := range v.children {
		visitBefore(c, fn)
	}
}

func firstWalk(v *wnode) {
	siblings := v.parent.children
	var w *wnode
	if v.i > 0 {
		w = siblings[v.i-1]
	}
	if n := len(v.children); n > 0 {
		executeShifts(v)
		mid := (v.children[0].z + v.children[n-1].z) / 2
		if w != nil {
			v.z = w.z + separation(v, w)
			v.m = v.z - mid
		} else {
			v.z = mid
		}
	} else if w != nil {
		v.z = w.z + separation(v, w)
	}
	anc := v.parent.ancestor
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.ancestor = apportion(v, w, anc)
}

func secondWalk(v *wnode) {
	v.x = v.z + v.parent.m
	v.m += v.parent.m
}

func apportion(v, w, ancestor *wnode) *wnode {
	if w == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop, sim, som := vip.m, vop.m, vim.m, vom.m

	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.a = v
		shift := vim.z + sim - vip.z - sip + separation(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.m
		sip += vip.m
		som += vom.m
		sop += vop.m
	}
	if vim != nil && nextRight(vop) == nil {
		vop.thread = vim
		vop.m += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.thread = vip
		vom.m += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *wnode) *wnode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.thread
}

func nextRight(v *wnode) *wnode {
	if n := len(v.children); n > 0 {
		return v.children[n-1]
	}
	return v.thread
}

func moveSubtree(wm, wp *wnode, shift float64) {
	change := shift / float64(wp.i-wm.i)
	wp.c -= change
	wp.s += shift
	wm.c += change
	wp.z += shift
	wp.m += shift
}

func executeShifts(v *wnode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.z += shift
		w.m += shift
		change += w.c
		shift += w.s + change
	}
}

func nextAncestor(vim, v, ancestor *wnode) *wnode {
	if vim.a.parent == v.parent {
		return vim.a
	}
	return ancestor
}
