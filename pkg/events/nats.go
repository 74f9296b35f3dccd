// Пакет events предоставляет обёртку для публикации событий изменения записей в NATS
package events

// Conn определяет минимальный интерфейс для работы с NATS-подключением
// Любая реализация Conn (например *nats.Conn) должна предоставлять метод Publish
// subject — тема (топик), data — байтовый массив сообщения
// Publish возвращает ошибку при неудаче публикации
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher хранит Conn и тему subject для публикации событий
type NATSPublisher struct {
	conn    Conn
	subject string
}

// NewPublisher создаёт новый NATSPublisher, связывая Conn и subject
func NewPublisher(conn Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

// PublishEvent отправляет данные в указанный subject в NATS
// Возвращает ошибку, если публикация не удалась
func (n *NATSPublisher) PublishEvent(data []byte) error {
	return n.conn.Publish(n.subject, data)
}
