package platform

import (
	"context"

	"github.com/aretw0/dreamlog/pkg/codec"
	"github.com/aretw0/dreamlog/pkg/core"
)

// New wires a storage adapter and a core.Service from the options.
//
// svc, err := dreamlog.New("./journal", dreamlog.WithAdapter("sqlite"))
func New(uri string, opts ...Option) (*core.Service, error) {
	return NewContext(context.Background(), uri, opts...)
}

// NewContext is New with a context for adapter initialization (redis ping, sqlite schema).
func NewContext(ctx context.Context, uri string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := initStorage(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	c := o.codec
	if c == nil {
		c = codec.Default()
	}
	isReadOnly, _ := o.config["read_only"].(bool)
	strict, _ := o.config["strict"].(bool)

	return core.NewService(core.Config{
		Storage:   storage,
		Codec:     c,
		Key:       o.key,
		Logger:    o.logger,
		Clock:     o.clock,
		NewID:     o.newID,
		ReadOnly:  isReadOnly,
		Strict:    strict,
		TagPolicy: o.policy,
	}), nil
}
