package herd

import "github.com/plus3/sheepdog/ecs"

type TimeSystem struct {
	Time ecs.Singleton[GameTime]
}

func (s *TimeSystem) Execute(frame *ecs.UpdateFrame) {
	t := s.Time.Get()
	t.Elapsed += frame.DeltaTime
	t.Ticks++
}
