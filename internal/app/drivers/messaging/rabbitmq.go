package messaging

import (
	"fmt"
	"medblock-service/internal/app/config"
	"net"
	"net/url"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const heartbeat = 10 * time.Second

// RabbitMQURI builds the amqp URL with escaped credentials on the default vhost.
func RabbitMQURI(driverConfig *config.DriverConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(driverConfig.RabbitMQ.Username, driverConfig.RabbitMQ.Password),
		Host:   net.JoinHostPort(driverConfig.RabbitMQ.Host, driverConfig.RabbitMQ.Port),
		Path:   "/",
	}
	return u.String()
}

func NewRabbitMQ(driverConfig *config.DriverConfig) (*amqp091.Connection, error) {
	conn, err := amqp091.DialConfig(RabbitMQURI(driverConfig), amqp091.Config{
		Heartbeat:  heartbeat,
		Properties: amqp091.Table{"connection_name": "medblock-service"},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	return conn, nil
}
