package mailservice

import (
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/caskblog/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) Render(name string, data any) (*message, error) {
	args := m.Called(name, data)
	msg, _ := args.Get(0).(*message)
	return msg, args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mu        sync.Mutex
	called    bool
	recipient string
	data      any
	err       error
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.called = true
	m.recipient = recipient
	m.data = data
	return m.err
}

func (m *MockMailer) IsCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.called
}

func (m *MockMailer) GetRecipient() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recipient
}

func (m *MockMailer) GetData() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

type MockLogger struct {
	mock.Mock
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Called(msg, args)
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.Called(msg, args)
}

type MockMessageConsumer struct {
	mock.Mock
	Body string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	m.Called(key, exchange, queue)

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		mockDelivery := amqp.Delivery{Body: []byte(m.Body)}
		msgsChan <- mockDelivery
	}()

	return msgsChan, nil
}
