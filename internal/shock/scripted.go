package shock

// Scripted replays fixed draws in order, cycling when exhausted.
// An empty Normals list yields 0 and an empty Uniforms list yields 0.5.
type Scripted struct {
	Normals  []float64
	Uniforms []float64

	nextNormal  int
	nextUniform int
}

func (s *Scripted) Normal() float64 {
	if len(s.Normals) == 0 {
		return 0
	}
	z := s.Normals[s.nextNormal%len(s.Normals)]
	s.nextNormal++
	return z
}

func (s *Scripted) Uniform() float64 {
	if len(s.Uniforms) == 0 {
		return 0.5
	}
	u := s.Uniforms[s.nextUniform%len(s.Uniforms)]
	s.nextUniform++
	return u
}

// Draws reports how many normal and uniform draws have been consumed.
func (s *Scripted) Draws() (normals, uniforms int) {
	return s.nextNormal, s.nextUniform
}
