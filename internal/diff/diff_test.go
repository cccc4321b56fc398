package diff

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/nlsolve/internal/nonlin"
)

// residual for F(u) = [u₁² − 4, u₁·u₂], with analytic Jacobian
// [[2u₁, 0], [u₂, u₁]].
func quadF(fu, u nonlin.Vector) {
	fu[0] = u[0]*u[0] - 4
	fu[1] = u[0] * u[1]
}

func analyticJ(u nonlin.Vector) *mat.Dense {
	return mat.NewDense(2, 2, []float64{
		2 * u[0], 0,
		u[1], u[0],
	})
}

func TestForward_MatchesAnalyticJacobian(t *testing.T) {
	u := nonlin.Vector{1.5, -2}
	fu := make(nonlin.Vector, 2)
	quadF(fu, u)

	j := mat.NewDense(2, 2, nil)
	if err := NewForward().Jacobian(j, quadF, u, fu); err != nil {
		t.Fatal(err)
	}

	want := analyticJ(u)
	for i := 0; i < 2; i++ {
		for k := 0; k < 2; k++ {
			if diff := math.Abs(j.At(i, k) - want.At(i, k)); diff > 1e-6 {
				t.Errorf("J[%d,%d] = %g, want %g", i, k, j.At(i, k), want.At(i, k))
			}
		}
	}
}

func TestCentral_MoreAccurateThanForward(t *testing.T) {
	u := nonlin.Vector{2, 3}
	fu := make(nonlin.Vector, 2)
	quadF(fu, u)

	jf := mat.NewDense(2, 2, nil)
	jc := mat.NewDense(2, 2, nil)
	if err := NewForward().Jacobian(jf, quadF, u, fu); err != nil {
		t.Fatal(err)
	}
	if err := NewCentral().Jacobian(jc, quadF, u, fu); err != nil {
		t.Fatal(err)
	}

	want := analyticJ(u)
	errOf := func(j *mat.Dense) float64 {
		sum := 0.0
		for i := 0; i < 2; i++ {
			for k := 0; k < 2; k++ {
				d := j.At(i, k) - want.At(i, k)
				sum += d * d
			}
		}
		return math.Sqrt(sum)
	}
	if errOf(jc) > errOf(jf)+1e-12 {
		t.Errorf("central error %g exceeds forward error %g", errOf(jc), errOf(jf))
	}
}

func TestBackend_PanicBecomesError(t *testing.T) {
	bad := func(fu, u nonlin.Vector) {
		panic("user callback exploded")
	}
	u := nonlin.Vector{1}
	fu := nonlin.Vector{0}

	j := mat.NewDense(1, 1, nil)
	err := NewForward().Jacobian(j, bad, u, fu)
	if !errors.Is(err, nonlin.ErrDifferentiation) {
		t.Fatalf("want ErrDifferentiation, got %v", err)
	}
}

func TestBackend_NonFiniteJacobianRejected(t *testing.T) {
	nan := func(fu, u nonlin.Vector) {
		fu[0] = math.NaN()
	}
	u := nonlin.Vector{1}
	fu := nonlin.Vector{0}

	j := mat.NewDense(1, 1, nil)
	if err := NewForward().Jacobian(j, nan, u, fu); err == nil {
		t.Fatal("NaN jacobian must be rejected")
	}
}

func TestJVP_MatchesFullJacobianProduct(t *testing.T) {
	u := nonlin.Vector{1.5, -2}
	fu := make(nonlin.Vector, 2)
	quadF(fu, u)
	v := nonlin.Vector{0.3, 0.7}

	got := make(nonlin.Vector, 2)
	if err := NewJVP().Apply(got, quadF, u, fu, v); err != nil {
		t.Fatal(err)
	}

	want := make(nonlin.Vector, 2)
	j := analyticJ(u)
	for i := 0; i < 2; i++ {
		want[i] = j.At(i, 0)*v[0] + j.At(i, 1)*v[1]
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("JVP[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New("symbolic"); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}
