package scene_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arborlabs/arbor/internal/core/scene"
)

type namer interface {
	ServiceName() string
}

type namedService struct {
	name string
}

func (s *namedService) ServiceName() string { return s.name }

func TestFindServicePrefersOwnNodeOverAncestors(t *testing.T) {
	child := scene.New("child", scene.WithServices(&label{text: "local"}))
	root := scene.New("root",
		scene.WithServices(&label{text: "inherited"}),
		scene.WithChildren(child),
	)
	require.NoError(t, root.Install())

	got, err := scene.FindService[*label](child)
	require.NoError(t, err)
	assert.Equal(t, "local", got.text)
}

func TestFindServiceWalksAncestorChain(t *testing.T) {
	leaf := scene.New("leaf")
	mid := scene.New("mid", scene.WithChildren(leaf))
	root := scene.New("root",
		scene.WithServices(&label{text: "top"}),
		scene.WithChildren(mid),
	)
	require.NoError(t, root.Install())

	got, err := scene.FindService[*label](leaf)
	require.NoError(t, err)
	assert.Equal(t, "top", got.text)
}

func TestFindServiceNeverSearchesDescendants(t *testing.T) {
	child := scene.New("child", scene.WithServices(&label{text: "below"}))
	root := scene.New("root", scene.WithChildren(child))
	require.NoError(t, root.Install())

	_, err := scene.FindService[*label](root)
	require.ErrorIs(t, err, scene.ErrServiceNotFound)
}

func TestFindServiceFirstInstalledWins(t *testing.T) {
	n := scene.New("root", scene.WithServices(
		&label{text: "first"},
		&label{text: "second"},
	))
	require.NoError(t, n.Install())

	got, err := scene.FindService[*label](n)
	require.NoError(t, err)
	assert.Equal(t, "first", got.text)
}

func TestFindServiceByInterface(t *testing.T) {
	child := scene.New("child")
	root := scene.New("root",
		scene.WithServices(&namedService{name: "svc"}),
		scene.WithChildren(child),
	)
	require.NoError(t, root.Install())

	got, err := scene.FindService[namer](child)
	require.NoError(t, err)
	assert.Equal(t, "svc", got.ServiceName())
}

func TestFindServiceFailureNamesTypeAndNode(t *testing.T) {
	leaf := scene.New("leaf")
	root := scene.New("root", scene.WithChildren(leaf))
	require.NoError(t, root.Install())

	_, err := scene.FindService[*label](leaf)
	require.ErrorIs(t, err, scene.ErrServiceNotFound)
	assert.Contains(t, err.Error(), "scene_test.label")
	assert.Contains(t, err.Error(), "root/leaf")
}

func TestMustServicePanicsOnMiss(t *testing.T) {
	n := scene.New("root")
	require.NoError(t, n.Install())

	assert.Panics(t, func() { scene.MustService[*label](n) })
	assert.NotPanics(t, func() {
		m := scene.New("m", scene.WithServices(&label{text: "x"}))
		require.NoError(t, m.Install())
		scene.MustService[*label](m)
	})
}

func TestFindByTypeMatchesGenericLookup(t *testing.T) {
	child := scene.New("child")
	root := scene.New("root",
		scene.WithServices(&namedService{name: "svc"}),
		scene.WithChildren(child),
	)
	require.NoError(t, root.Install())

	byIface, err := child.FindByType(reflect.TypeOf((*namer)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "svc", byIface.(namer).ServiceName())

	byPtr, err := child.FindByType(reflect.TypeOf((*namedService)(nil)))
	require.NoError(t, err)
	assert.Same(t, byIface, byPtr)

	_, err = child.FindByType(reflect.TypeOf((*label)(nil)))
	require.ErrorIs(t, err, scene.ErrServiceNotFound)
}

func TestLookupStopsAtDetachedRoot(t *testing.T) {
	child := scene.New("child")
	root := scene.New("root",
		scene.WithServices(&label{text: "top"}),
		scene.WithChildren(child),
	)
	require.NoError(t, root.Install())

	_, err := scene.FindService[*label](child)
	require.NoError(t, err)

	require.True(t, root.RemoveNode(child))
	_, err = scene.FindService[*label](child)
	require.ErrorIs(t, err, scene.ErrServiceNotFound,
		"a detached subtree must no longer see its old ancestors")
}

func TestChildWithFindsFirstMatchingChild(t *testing.T) {
	plain := scene.New("plain")
	first := scene.New("first", scene.WithServices(&namedService{name: "one"}))
	second := scene.New("second", scene.WithServices(&namedService{name: "two"}))
	root := scene.New("root", scene.WithChildren(plain, first, second))
	require.NoError(t, root.Install())

	node, svc, err := scene.ChildWith[*namedService](root)
	require.NoError(t, err)
	assert.Same(t, first, node)
	assert.Equal(t, "one", svc.name)

	_, _, err = scene.ChildWith[*label](root)
	require.ErrorIs(t, err, scene.ErrChildNotFound)
}

func TestChildWithFuncFiltersChildren(t *testing.T) {
	first := scene.New("first", scene.WithServices(&namedService{name: "one"}))
	second := scene.New("second", scene.WithServices(&namedService{name: "two"}))
	root := scene.New("root", scene.WithChildren(first, second))
	require.NoError(t, root.Install())

	node, svc, err := scene.ChildWithFunc[*namedService](root, func(_ *scene.Node, s *namedService) bool {
		return s.name == "two"
	})
	require.NoError(t, err)
	assert.Same(t, second, node)
	assert.Equal(t, "two", svc.name)
}

func TestChildWithDoesNotDescend(t *testing.T) {
	grandchild := scene.New("grandchild", scene.WithServices(&namedService{name: "deep"}))
	mid := scene.New("mid", scene.WithChildren(grandchild))
	root := scene.New("root", scene.WithChildren(mid))
	require.NoError(t, root.Install())

	_, _, err := scene.ChildWith[*namedService](root)
	require.ErrorIs(t, err, scene.ErrChildNotFound)
}

func TestEachChildWithVisitsAllMatches(t *testing.T) {
	first := scene.New("first", scene.WithServices(&namedService{name: "one"}))
	plain := scene.New("plain")
	second := scene.New("second", scene.WithServices(&namedService{name: "two"}))
	root := scene.New("root", scene.WithChildren(first, plain, second))
	require.NoError(t, root.Install())

	var seen []string
	scene.EachChildWith[*namedService](root, func(n *scene.Node, s *namedService) {
		seen = append(seen, n.Name()+":"+s.name)
	})
	assert.Equal(t, []string{"first:one", "second:two"}, seen)
}
