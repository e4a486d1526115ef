package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/d-biehl/platynui/pkg/snapshot"
)

func TestSnapshotFlagsOptionsDefaultsToNameIdAttributes(t *testing.T) {
	f := &snapshotFlags{attrs: "default"}
	opts := f.options()
	require.Equal(t, snapshot.AttributesDefault, opts.AttributeMode)
}

func TestSnapshotFlagsOptionsAll(t *testing.T) {
	f := &snapshotFlags{attrs: "all"}
	opts := f.options()
	require.Equal(t, snapshot.AttributesAll, opts.AttributeMode)
}

func TestSnapshotFlagsOptionsNoAttrsForcesEmptyList(t *testing.T) {
	f := &snapshotFlags{attrs: "all", noAttrs: true, include: []string{"Name"}}
	opts := f.options()
	require.Equal(t, snapshot.AttributesList, opts.AttributeMode)
	require.Nil(t, opts.Include)
}

func TestSnapshotFlagsOptionsCarriesMaxDepthAndDerived(t *testing.T) {
	f := &snapshotFlags{maxDepth: 3, excludeDerived: true, includeRuntimeID: true}
	opts := f.options()
	require.Equal(t, 3, opts.MaxDepth)
	require.True(t, opts.ExcludeDerived)
	require.True(t, opts.IncludeRuntimeID)
}
