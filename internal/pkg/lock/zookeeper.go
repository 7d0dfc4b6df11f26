package lock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

const lockRoot = "/bookhub_locks"

// ZookeeperLocker 使用临时顺序节点实现公平锁。
// 节点随会话消失，因此 ttl 参数在这里不起作用。
type ZookeeperLocker struct {
	conn *zk.Conn
}

// NewZookeeperLocker 连接 zookeeper 并确保锁根节点存在。
func NewZookeeperLocker(servers []string, sessionTimeout time.Duration) (*ZookeeperLocker, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect zookeeper: %w", err)
	}
	if err := ensureNode(conn, lockRoot); err != nil {
		conn.Close()
		return nil, err
	}
	return &ZookeeperLocker{conn: conn}, nil
}

func (l *ZookeeperLocker) Close() {
	l.conn.Close()
}

func (l *ZookeeperLocker) Acquire(ctx context.Context, key string, _ time.Duration) (Lease, error) {
	lockPath := lockRoot + "/" + strings.ReplaceAll(key, "/", "_")
	if err := ensureNode(l.conn, lockPath); err != nil {
		return nil, err
	}

	// 1. 在锁路径下创建临时顺序节点
	nodePath, err := l.conn.CreateProtectedEphemeralSequential(lockPath+"/lock-", []byte(""), zk.WorldACL(zk.PermAll))
	if err != nil {
		return nil, fmt.Errorf("failed to create sequential node: %w", err)
	}
	lease := &zkLease{conn: l.conn, node: nodePath}

	for {
		// 2. 取出所有竞争者并按序号排序
		children, _, err := l.conn.Children(lockPath)
		if err != nil {
			_ = lease.Release(context.Background())
			return nil, fmt.Errorf("failed to get children nodes: %w", err)
		}
		sort.Slice(children, func(i, j int) bool { return sequence(children[i]) < sequence(children[j]) })

		myName := strings.TrimPrefix(nodePath, lockPath+"/")
		idx := -1
		for i, child := range children {
			if child == myName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.New("lock node disappeared, session may have expired")
		}
		// 3. 序号最小者持有锁
		if idx == 0 {
			return lease, nil
		}

		// 4. 只监听前一个节点，避免惊群
		exists, _, events, err := l.conn.ExistsW(lockPath + "/" + children[idx-1])
		if err != nil {
			_ = lease.Release(context.Background())
			return nil, fmt.Errorf("failed to watch previous node: %w", err)
		}
		if !exists {
			continue
		}

		select {
		case <-events:
		case <-ctx.Done():
			_ = lease.Release(context.Background())
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrNotAcquired
			}
			return nil, ctx.Err()
		}
	}
}

type zkLease struct {
	conn *zk.Conn
	node string
}

func (l *zkLease) Release(_ context.Context) error {
	if l.node == "" {
		return errors.New("no lock to unlock")
	}
	if err := l.conn.Delete(l.node, -1); err != nil && !errors.Is(err, zk.ErrNoNode) {
		return fmt.Errorf("failed to delete lock node: %w", err)
	}
	l.node = ""
	return nil
}

func ensureNode(conn *zk.Conn, path string) error {
	exists, _, err := conn.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check node %s: %w", path, err)
	}
	if exists {
		return nil
	}
	if _, err := conn.Create(path, []byte(""), 0, zk.WorldACL(zk.PermAll)); err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("failed to create node %s: %w", path, err)
	}
	return nil
}

// sequence 取出顺序节点末尾的 10 位序号。protected 节点带有 GUID 前缀，不能直接按名字排序。
func sequence(name string) string {
	if len(name) < 10 {
		return name
	}
	return name[len(name)-10:]
}
