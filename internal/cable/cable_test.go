package cable

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/installquote/internal/domain"
)

func TestResolveThirtyFootRun(t *testing.T) {
	length, minutes := Resolve(domain.Point{X: 0, Y: 0}, domain.Point{X: 480, Y: 0}, 16)
	assert.Equal(t, 30.0, length)
	assert.Equal(t, 32, minutes)
}

func TestResolveDiagonal(t *testing.T) {
	// 3-4-5 triangle scaled to 300x400 px at 10 px/ft = 50 ft.
	length, minutes := Resolve(domain.Point{X: 100, Y: 100}, domain.Point{X: 400, Y: 500}, 10)
	assert.Equal(t, 50.0, length)
	assert.Equal(t, 40, minutes)
}

func TestResolveRoundsToOneDecimal(t *testing.T) {
	length, _ := Resolve(domain.Point{}, domain.Point{X: 100}, 16)
	assert.Equal(t, 6.3, length)
}

func TestResolveClampsShortRuns(t *testing.T) {
	length, minutes := Resolve(domain.Point{X: 5, Y: 5}, domain.Point{X: 5, Y: 5}, 16)
	assert.Equal(t, MinLengthFt, length)
	assert.Equal(t, 20, minutes)
}

func TestResolveClampsScale(t *testing.T) {
	for _, scale := range []float64{0, -3, 1, math.NaN(), math.Inf(1)} {
		length, _ := Resolve(domain.Point{}, domain.Point{X: 40}, scale)
		assert.Equal(t, 10.0, length, "scale %v", scale)
	}
}

func TestResolveSymmetric(t *testing.T) {
	points := []domain.Point{{X: 0, Y: 0}, {X: 13, Y: 77}, {X: -250, Y: 40}, {X: 1024.5, Y: 768.25}}
	scales := []float64{4, 7.5, 16, 32}
	for _, a := range points {
		for _, b := range points {
			for _, s := range scales {
				l1, m1 := Resolve(a, b, s)
				l2, m2 := Resolve(b, a, s)
				assert.Equal(t, l1, l2)
				assert.Equal(t, m1, m2)
			}
		}
	}
}

func TestResolveMonotonic(t *testing.T) {
	for _, scale := range []float64{4, 12, 16, 48} {
		prevLen, prevMin := 0.0, 0
		for px := 0.0; px <= 5000; px += 7.3 {
			l, m := Resolve(domain.Point{}, domain.Point{X: px}, scale)
			assert.GreaterOrEqual(t, l, prevLen)
			assert.GreaterOrEqual(t, m, prevMin)
			prevLen, prevMin = l, m
		}
	}
}

func TestInstallMinutes(t *testing.T) {
	assert.Equal(t, 20, InstallMinutes(1))
	assert.Equal(t, 30, InstallMinutes(25))
	assert.Equal(t, 60, InstallMinutes(100))
	assert.Equal(t, 21, InstallMinutes(2.5))
}

func TestResolveFloorRecomputes(t *testing.T) {
	f := domain.Floor{
		ScalePxPerFt: 8,
		Layers: []domain.Layer{{
			Type: domain.LayerNetwork,
			CableRuns: []domain.CableRun{
				{ID: "a", Start: domain.Point{}, End: domain.Point{X: 240}, LengthFt: 999, TTIMin: 999},
			},
		}},
	}
	ResolveFloor(&f)
	assert.Equal(t, 30.0, f.Layers[0].CableRuns[0].LengthFt)
	assert.Equal(t, 32, f.Layers[0].CableRuns[0].TTIMin)
}
