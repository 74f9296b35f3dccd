// Пакет events содержит unit-тесты для проверки работы NATSPublisher и метода PublishEvent
package events

import (
	"bytes"
	"errors"
	"testing"
)

// mockConn реализует интерфейс Conn и позволяет перехватывать вызовы Publish
// Мы сохраняем переданный subject и данные для проверки в тестах
type mockConn struct {
	publishedSubject string // тема, переданная в Publish
	publishedData    []byte // данные, переданные в Publish
	returnErr        error  // ошибка, которую вернет Publish
}

// Publish сохраняет параметры вызова в полях mockConn и возвращает заранее заданную ошибку
func (m *mockConn) Publish(subject string, data []byte) error {
	m.publishedSubject = subject
	m.publishedData = data
	return m.returnErr
}

// TestPublishEvent_Success проверяет, что PublishEvent вызывает Publish
// с тем же subject и данными без ошибок
func TestPublishEvent_Success(t *testing.T) {
	subject := "vehicles"
	data := []byte(`{"action":"create"}`)
	mock := &mockConn{returnErr: nil}
	pub := NewPublisher(mock, subject)

	err := pub.PublishEvent(data)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if mock.publishedSubject != subject {
		t.Errorf("expected subject %s, got %s", subject, mock.publishedSubject)
	}
	if !bytes.Equal(mock.publishedData, data) {
		t.Errorf("expected data %s, got %s", data, mock.publishedData)
	}
}

// TestPublishEvent_Error проверяет прокидку ошибки из Conn.Publish
func TestPublishEvent_Error(t *testing.T) {
	expErr := errors.New("publish failed")
	mock := &mockConn{returnErr: expErr}
	pub := NewPublisher(mock, "vehicles")

	err := pub.PublishEvent([]byte("payload"))
	if !errors.Is(err, expErr) {
		t.Errorf("expected error %v, got %v", expErr, err)
	}
}

// TestPublishEvent_NilData проверяет передачу nil в качестве данных
// PublishEvent должен корректно передать nil, без паники и ошибок
func TestPublishEvent_NilData(t *testing.T) {
	mock := &mockConn{returnErr: nil}
	pub := NewPublisher(mock, "vehicles")

	err := pub.PublishEvent(nil)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if mock.publishedData != nil {
		t.Errorf("expected nil data, got %v", mock.publishedData)
	}
}
