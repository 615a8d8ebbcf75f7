package eventbus

// DefaultContactTopic 은 문의 알림 이벤트의 기본 토픽이다. kafka.topic 설정으로 바꿀 수 있다.
const DefaultContactTopic = "techblog.contact.events"

// ContactTopic returns the contact topic, falling back to the default name.
func ContactTopic(name string) Topic {
	if name == "" {
		name = DefaultContactTopic
	}
	return NewTopic(name)
}
