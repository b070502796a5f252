// Package discovery resolves the address of a kvwire server.
//
// Servers may be configured statically or looked up in etcd, where each
// instance is stored under a shared prefix:
//
//	Key:   {prefix}{name}
//	Value: "host:port" or JSON {"Addr": "host:port", "Weight": 10}
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

var ErrNoInstances = errors.New("discovery: no server instances registered")

// Instance is one registered server.
type Instance struct {
	Key    string `json:"-"`
	Addr   string `json:"Addr"`
	Weight int    `json:"Weight"`
}

// Resolver returns the address to dial.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Static always resolves to the same address.
type Static string

func (s Static) Resolve(context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoInstances
	}
	return string(s), nil
}

// Etcd resolves the preferred instance registered under a key prefix.
type Etcd struct {
	kv     clientv3.KV
	client *clientv3.Client
	prefix string
}

// NewEtcd connects to the given etcd endpoints.
func NewEtcd(endpoints []string, prefix string, dialTimeout time.Duration) (*Etcd, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect etcd: %w", err)
	}
	return &Etcd{kv: c, client: c, prefix: prefix}, nil
}

func newEtcdKV(kv clientv3.KV, prefix string) *Etcd {
	return &Etcd{kv: kv, prefix: prefix}
}

// Instances lists every well-formed instance under the prefix.
func (e *Etcd) Instances(ctx context.Context) ([]Instance, error) {
	resp, err := e.kv.Get(ctx, e.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("etcd get %s: %w", e.prefix, err)
	}

	instances := make([]Instance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		inst, ok := ParseInstance(string(kv.Key), kv.Value)
		if !ok {
			continue // Skip malformed entries
		}
		instances = append(instances, inst)
	}
	return instances, nil
}

func (e *Etcd) Resolve(ctx context.Context) (string, error) {
	instances, err := e.Instances(ctx)
	if err != nil {
		return "", err
	}
	inst, err := Pick(instances)
	if err != nil {
		return "", err
	}
	return inst.Addr, nil
}

func (e *Etcd) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

// ParseInstance decodes a registry value, accepting a bare address or a
// JSON instance record.
func ParseInstance(key string, value []byte) (Instance, bool) {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		return Instance{}, false
	}
	if strings.HasPrefix(raw, "{") {
		var inst Instance
		if err := json.Unmarshal([]byte(raw), &inst); err != nil {
			return Instance{}, false
		}
		inst.Addr = strings.TrimSpace(inst.Addr)
		if inst.Addr == "" {
			return Instance{}, false
		}
		inst.Key = key
		return inst, true
	}
	return Instance{Key: key, Addr: raw}, true
}

// Pick chooses the highest-weight instance, breaking ties by key order.
func Pick(instances []Instance) (Instance, error) {
	if len(instances) == 0 {
		return Instance{}, ErrNoInstances
	}
	sorted := append([]Instance(nil), instances...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weight != sorted[j].Weight {
			return sorted[i].Weight > sorted[j].Weight
		}
		return sorted[i].Key < sorted[j].Key
	})
	return sorted[0], nil
}
