package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/streadway/amqp"
)

const reconnectDelay = 60 * time.Second

// Connection is one named AMQP connection and the queues it serves.
type Connection struct {
	name    string
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Queues  []string
	Err     chan error
	ApiErr  chan error

	publishMu sync.Mutex
}

var (
	poolMu         sync.Mutex
	connectionPool = make(map[string]*Connection)
)

// NewConnection returns the pooled connection for name, creating it if needed.
func NewConnection(name string, queues []string) *Connection {
	poolMu.Lock()
	defer poolMu.Unlock()
	if c, ok := connectionPool[name]; ok {
		return c
	}
	c := &Connection{
		name:   name,
		Queues: queues,
		Err:    make(chan error, 1),
		ApiErr: make(chan error, 1),
	}
	connectionPool[name] = c
	return c
}

// GetConnection returns the connection which was instantiated, or nil.
func GetConnection(name string) *Connection {
	poolMu.Lock()
	defer poolMu.Unlock()
	return connectionPool[name]
}

func (c *Connection) Connect() error {
	var err error
	c.Conn, err = amqp.Dial(utils.EnvConfig.RabbitMQ.Domain)
	if err != nil {
		return fmt.Errorf("Error in creating rabbitmq connection with %s : %s", utils.EnvConfig.RabbitMQ.Domain, err.Error())
	}
	go func() {
		<-c.Conn.NotifyClose(make(chan *amqp.Error))
		notify(c.Err, errors.New("Connection Closed"))
		notify(c.ApiErr, errors.New("Api detect Connection Closed"))
	}()
	c.Channel, err = c.Conn.Channel()
	if err != nil {
		return fmt.Errorf("Channel: %s", err)
	}
	return nil
}

// notify drops the error when nobody has consumed the previous one yet.
func notify(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func (c *Connection) BindQueue() error {
	for _, q := range c.Queues {
		if _, err := c.Channel.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("error in declaring the queue %s", err)
		}
	}
	return nil
}

func (c *Connection) Reconnect() error {
	if err := c.Connect(); err != nil {
		return err
	}
	return c.BindQueue()
}

func (c *Connection) Consume() (map[string]<-chan amqp.Delivery, error) {
	m := make(map[string]<-chan amqp.Delivery)
	for _, q := range c.Queues {
		deliveries, err := c.Channel.Consume(q, "", true, false, false, false, nil)
		if err != nil {
			return nil, err
		}
		m[q] = deliveries
	}
	return m, nil
}

// Publish sends a persistent JSON message to queue.
func (c *Connection) Publish(queue string, body []byte) error {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()
	if c.Channel == nil {
		return errors.New("channel is not open")
	}
	return c.Channel.Publish("", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}

// HandleConsumedDeliveries runs fn over the deliveries of every queue and,
// whenever the connection drops, reconnects and restarts fn on the new
// delivery channels. It blocks forever.
func (c *Connection) HandleConsumedDeliveries(deliveries map[string]<-chan amqp.Delivery, fn func(*Connection, string, <-chan amqp.Delivery)) {
	for {
		for q, d := range deliveries {
			go fn(c, q, d)
		}
		err := <-c.Err
		trackLog.Warn(fmt.Sprintf("[%s] %s, reconnecting", c.name, err.Error()), true)
		for {
			if err := c.Reconnect(); err != nil {
				trackLog.Error(err.Error(), true)
				time.Sleep(reconnectDelay)
				continue
			}
			next, err := c.Consume()
			if err != nil {
				trackLog.Error(err.Error(), true)
				time.Sleep(reconnectDelay)
				continue
			}
			deliveries = next
			break
		}
	}
}
