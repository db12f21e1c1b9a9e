package value

import (
	"math"

	"github.com/tera-toolbox/upkg/stream"
)

// angleToRadians converts the 16-bit fixed-point angle unit to radians;
// 65536 units make a full turn.
const angleToRadians = math.Pi / 32768

// Quat is a rotation quaternion; W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{W: 1}

// Serialize transfers X, Y, Z then W.
func (q *Quat) Serialize(s *stream.Stream) {
	s.Float32(&q.X)
	s.Float32(&q.Y)
	s.Float32(&q.Z)
	s.Float32(&q.W)
}

// Matrix is a row-major 4x4 transform.
type Matrix struct {
	M [4][4]float32
}

// IdentityMatrix is the identity transform.
var IdentityMatrix = Matrix{M: [4][4]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}}

// Serialize transfers the sixteen cells row by row.
func (m *Matrix) Serialize(s *stream.Stream) {
	for i := range m.M {
		for j := range m.M[i] {
			s.Float32(&m.M[i][j])
		}
	}
}

// MatrixFromPlanes builds a matrix whose rows are x, y, z and w.
func MatrixFromPlanes(x, y, z, w Plane) Matrix {
	return Matrix{M: [4][4]float32{
		{x.X, x.Y, x.Z, x.W},
		{y.X, y.Y, y.Z, y.W},
		{z.X, z.Y, z.Z, z.W},
		{w.X, w.Y, w.Z, w.W},
	}}
}

// QuatFromMatrix extracts the rotation of m. The trace decides the branch;
// when it is not positive the largest diagonal element is used so the
// divisor never approaches zero.
func QuatFromMatrix(m Matrix) Quat {
	tr := m.M[0][0] + m.M[1][1] + m.M[2][2]
	if tr > 0 {
		invS := 1 / sqrt32(tr+1)
		s := 0.5 * invS
		return Quat{
			X: (m.M[1][2] - m.M[2][1]) * s,
			Y: (m.M[2][0] - m.M[0][2]) * s,
			Z: (m.M[0][1] - m.M[1][0]) * s,
			W: 0.5 * (1 / invS),
		}
	}

	i := 0
	if m.M[1][1] > m.M[0][0] {
		i = 1
	}
	if m.M[2][2] > m.M[i][i] {
		i = 2
	}
	next := [3]int{1, 2, 0}
	j := next[i]
	k := next[j]

	s := m.M[i][i] - m.M[j][j] - m.M[k][k] + 1
	invS := 1 / sqrt32(s)

	var qt [4]float32
	qt[i] = 0.5 * (1 / invS)
	s = 0.5 * invS
	qt[3] = (m.M[j][k] - m.M[k][j]) * s
	qt[j] = (m.M[i][j] + m.M[j][i]) * s
	qt[k] = (m.M[i][k] + m.M[k][i]) * s

	return Quat{X: qt[0], Y: qt[1], Z: qt[2], W: qt[3]}
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// Rotator is a rotation stored as three 16-bit fixed-point angles widened to
// int32.
type Rotator struct {
	Pitch, Yaw, Roll int32
}

// Serialize transfers Pitch, Yaw and Roll.
func (r *Rotator) Serialize(s *stream.Stream) {
	s.Int32(&r.Pitch)
	s.Int32(&r.Yaw)
	s.Int32(&r.Roll)
}

// normalizeAxis maps an angle into [-32768, 32767].
func normalizeAxis(a int32) int32 {
	a &= 0xFFFF
	if a > 32767 {
		a -= 0x10000
	}

	return a
}

// Normalized returns r with every axis in [-32768, 32767].
func (r Rotator) Normalized() Rotator {
	return Rotator{Pitch: normalizeAxis(r.Pitch), Yaw: normalizeAxis(r.Yaw), Roll: normalizeAxis(r.Roll)}
}

// Denormalized returns r with every axis in [0, 65535].
func (r Rotator) Denormalized() Rotator {
	return Rotator{Pitch: r.Pitch & 0xFFFF, Yaw: r.Yaw & 0xFFFF, Roll: r.Roll & 0xFFFF}
}

// Euler returns (roll, pitch, yaw) in degrees.
func (r Rotator) Euler() Vector {
	const toDegrees = 180.0 / 32768.0
	return Vector{X: float32(r.Roll) * toDegrees, Y: float32(r.Pitch) * toDegrees, Z: float32(r.Yaw) * toDegrees}
}

// Matrix returns the rotation-translation matrix of r about origin.
func (r Rotator) Matrix(origin Vector) Matrix {
	sr, cr := sincos(r.Roll)
	sp, cp := sincos(r.Pitch)
	sy, cy := sincos(r.Yaw)

	return Matrix{M: [4][4]float32{
		{cp * cy, cp * sy, sp, 0},
		{sr*sp*cy - cr*sy, sr*sp*sy + cr*cy, -sr * cp, 0},
		{-(cr*sp*cy + sr*sy), cy*sr - cr*sp*sy, cr * cp, 0},
		{origin.X, origin.Y, origin.Z, 1},
	}}
}

// Quaternion converts r through its rotation matrix.
func (r Rotator) Quaternion() Quat {
	return QuatFromMatrix(r.Matrix(Vector{}))
}

func sincos(angle int32) (float32, float32) {
	s, c := math.Sincos(float64(angle) * angleToRadians)
	return float32(s), float32(c)
}
