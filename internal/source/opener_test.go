package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDispatch(t *testing.T) {
	var opened string
	reg := Registry{
		".gltf": OpenerFunc(func(path string) (*Scene, error) {
			opened = path
			return &Scene{Root: &Node{Name: "root"}}, nil
		}),
	}

	sc, err := reg.Open("models/Box.GLTF")
	require.NoError(t, err)
	require.NotNil(t, sc)
	assert.Equal(t, "models/Box.GLTF", opened)
	assert.True(t, reg.Supports("a.gltf"))

	sc, err = reg.Open("models/box.fbx")
	assert.NoError(t, err)
	assert.Nil(t, sc)
	assert.False(t, reg.Supports("box.fbx"))
}

func TestNodeCount(t *testing.T) {
	sc := &Scene{Root: &Node{Children: []*Node{
		{Children: []*Node{{}, {}}},
		{},
	}}}
	assert.Equal(t, 5, sc.NodeCount())

	var empty *Scene
	assert.Equal(t, 0, empty.NodeCount())
}
