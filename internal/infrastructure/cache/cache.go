package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client envuelve redis.Client y falla de forma segura: los errores de conectividad
// se comportan como ausencia de datos.
type Client struct {
	client *redis.Client
}

// New crea un cliente Redis con timeouts cortos.
func New(addr, password string, db int) *Client {
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})}
}

// Ping comprueba la conexión; solo para logs de arranque.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache: cliente no configurado")
	}
	return c.client.Ping(ctx).Err()
}

// GetInt devuelve el entero guardado en key, o 0 si falta o Redis no responde.
func (c *Client) GetInt(ctx context.Context, key string) int64 {
	if c == nil || c.client == nil {
		return 0
	}
	n, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Incr incrementa key en una transacción MULTI/EXEC. Si key no existe la crea
// con ttl, de modo que el contador siempre caduca. Devuelve 0 si Redis no responde.
func (c *Client) Incr(ctx context.Context, key string, ttl time.Duration) int64 {
	if c == nil || c.client == nil {
		return 0
	}
	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if ttl > 0 {
			pipe.SetNX(ctx, key, 0, ttl)
		}
		incr = pipe.Incr(ctx, key)
		return nil
	})
	if err != nil {
		return 0
	}
	return incr.Val()
}

// Delete borra key ignorando errores de Redis.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, key).Err()
}

// Close libera las conexiones.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
