package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// fakeKV serves Get from a fixed set of entries; other KV methods are unused.
type fakeKV struct {
	clientv3.KV
	kvs    []*mvccpb.KeyValue
	err    error
	gotKey string
}

func (f *fakeKV) Get(_ context.Context, key string, _ ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	f.gotKey = key
	if f.err != nil {
		return nil, f.err
	}
	return &clientv3.GetResponse{Kvs: f.kvs}, nil
}

func entry(key, value string) *mvccpb.KeyValue {
	return &mvccpb.KeyValue{Key: []byte(key), Value: []byte(value)}
}

func TestStatic(t *testing.T) {
	addr, err := Static("127.0.0.1:8085").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8085", addr)

	_, err = Static("").Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoInstances)
}

func TestParseInstance(t *testing.T) {
	inst, ok := ParseInstance("/kvwire/servers/a", []byte(" 10.0.0.1:8085 \n"))
	require.True(t, ok)
	assert.Equal(t, "10.0.0.1:8085", inst.Addr)
	assert.Equal(t, "/kvwire/servers/a", inst.Key)
	assert.Zero(t, inst.Weight)

	inst, ok = ParseInstance("/kvwire/servers/b", []byte(`{"Addr":"10.0.0.2:8085","Weight":10}`))
	require.True(t, ok)
	assert.Equal(t, "10.0.0.2:8085", inst.Addr)
	assert.Equal(t, 10, inst.Weight)

	_, ok = ParseInstance("k", []byte(""))
	assert.False(t, ok)
	_, ok = ParseInstance("k", []byte(`{"Addr":`))
	assert.False(t, ok)
	_, ok = ParseInstance("k", []byte(`{"Weight":3}`))
	assert.False(t, ok)
}

func TestPick(t *testing.T) {
	_, err := Pick(nil)
	assert.ErrorIs(t, err, ErrNoInstances)

	instances := []Instance{
		{Key: "/s/c", Addr: "c:1", Weight: 5},
		{Key: "/s/b", Addr: "b:1", Weight: 10},
		{Key: "/s/a", Addr: "a:1", Weight: 10},
	}
	got, err := Pick(instances)
	require.NoError(t, err)
	assert.Equal(t, "a:1", got.Addr)

	// Input order is left untouched.
	assert.Equal(t, "c:1", instances[0].Addr)
}

func TestEtcdInstances(t *testing.T) {
	kv := &fakeKV{kvs: []*mvccpb.KeyValue{
		entry("/kvwire/servers/a", "10.0.0.1:8085"),
		entry("/kvwire/servers/b", `{"Addr":"10.0.0.2:8085","Weight":10}`),
		entry("/kvwire/servers/broken", `{"Addr":`),
		entry("/kvwire/servers/empty", "  "),
	}}
	e := newEtcdKV(kv, "/kvwire/servers/")

	instances, err := e.Instances(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/kvwire/servers/", kv.gotKey)
	assert.Equal(t, []Instance{
		{Key: "/kvwire/servers/a", Addr: "10.0.0.1:8085"},
		{Key: "/kvwire/servers/b", Addr: "10.0.0.2:8085", Weight: 10},
	}, instances)
}

func TestEtcdResolve(t *testing.T) {
	kv := &fakeKV{kvs: []*mvccpb.KeyValue{
		entry("/kvwire/servers/a", "10.0.0.1:8085"),
		entry("/kvwire/servers/b", `{"Addr":"10.0.0.2:8085","Weight":10}`),
		entry("/kvwire/servers/c", `{"Weight":30}`),
	}}
	e := newEtcdKV(kv, "/kvwire/servers/")

	addr, err := e.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:8085", addr)
	assert.NoError(t, e.Close())
}

func TestEtcdResolve_NoInstances(t *testing.T) {
	e := newEtcdKV(&fakeKV{kvs: []*mvccpb.KeyValue{entry("/s/x", "")}}, "/s/")

	_, err := e.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoInstances)
}

func TestEtcdResolve_GetError(t *testing.T) {
	boom := errors.New("etcdserver: request timed out")
	e := newEtcdKV(&fakeKV{err: boom}, "/s/")

	_, err := e.Resolve(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "etcd get /s/")
}
