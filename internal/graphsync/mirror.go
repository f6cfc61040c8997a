// Package graphsync mirrors each board's dependency graph into Neo4j so it
// can be queried with Cypher. The mirror follows hub events and rewrites a
// board's subgraph after every change; the records table stays the source of truth.
package graphsync

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/yukikurage/taskboard/internal/graph"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/realtime"
)

const (
	queueSize   = 64
	syncTimeout = 10 * time.Second
)

// TaskSource loads a board's tasks
type TaskSource interface {
	Tasks(boardID, query, group string) ([]models.Task, error)
}

// BoardLister lists boards; an empty workspace id lists all of them
type BoardLister interface {
	ListBoards(workspaceID string) ([]models.Board, error)
}

// Mirror projects boards into Neo4j as (:Task)-[:BLOCKS]->(:Task) subgraphs
type Mirror struct {
	driver neo4j.DriverWithContext
	tasks  TaskSource
	queue  chan string
	sync   func(ctx context.Context, boardID string) error
}

// Connect opens a driver and checks the server is reachable
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j: %w", err)
	}
	return driver, nil
}

func NewMirror(driver neo4j.DriverWithContext, tasks TaskSource) *Mirror {
	m := &Mirror{
		driver: driver,
		tasks:  tasks,
		queue:  make(chan string, queueSize),
	}
	m.sync = m.SyncBoard
	return m
}

// Handle is a realtime.Subscriber. It queues the affected board without
// blocking the hub.
func (m *Mirror) Handle(ev realtime.Event) {
	boardID, ok := boardToSync(ev)
	if !ok {
		return
	}
	select {
	case m.queue <- boardID:
	default:
		log.Printf("Graph mirror queue full, skipping board %s", boardID)
	}
}

// Run syncs queued boards until ctx is done
func (m *Mirror) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case boardID := <-m.queue:
			if err := m.sync(ctx, boardID); err != nil {
				log.Printf("Graph mirror failed for board %s: %v", boardID, err)
			}
		}
	}
}

// Backfill syncs every existing board once, so boards that never change
// after startup still reach the mirror. Per-board failures are logged.
func (m *Mirror) Backfill(ctx context.Context, boards BoardLister) error {
	list, err := boards.ListBoards("")
	if err != nil {
		return err
	}
	synced := 0
	for _, b := range list {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := m.sync(ctx, b.ID); err != nil {
			log.Printf("Graph mirror failed for board %s: %v", b.ID, err)
			continue
		}
		synced++
	}
	log.Printf("Graph mirror backfilled %d of %d boards", synced, len(list))
	return nil
}

// SyncBoard replaces the board's subgraph with its current tasks. A board
// with no tasks, including a deleted one, ends up with no nodes.
func (m *Mirror) SyncBoard(ctx context.Context, boardID string) error {
	tasks, err := m.tasks.Tasks(boardID, "", "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	params := syncParams(boardID, tasks)
	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, q := range syncQueries {
			res, err := tx.Run(ctx, q, params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to write board graph: %w", err)
	}
	return nil
}

var syncQueries = []string{
	"MATCH (t:Task {boardId: $boardId}) WHERE NOT t.id IN $ids DETACH DELETE t",
	"UNWIND $nodes AS n " +
		"MERGE (t:Task {boardId: $boardId, id: n.id}) " +
		"SET t.title = n.title, t.status = n.status, t.priority = n.priority, t.x = n.x, t.y = n.y",
	"MATCH (:Task {boardId: $boardId})-[r:BLOCKS]->() DELETE r",
	"UNWIND $edges AS e " +
		"MATCH (s:Task {boardId: $boardId, id: e.source}), (t:Task {boardId: $boardId, id: e.target}) " +
		"MERGE (s)-[:BLOCKS]->(t)",
}

// syncParams flattens a board's graph into Cypher parameters
func syncParams(boardID string, tasks []models.Task) map[string]any {
	g := graph.Build(tasks, nil)

	ids := make([]any, 0, len(g.Nodes))
	nodes := make([]any, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
		nodes = append(nodes, map[string]any{
			"id":       n.ID,
			"title":    n.Title,
			"status":   string(n.Status),
			"priority": string(n.Priority),
			"x":        n.Position.X,
			"y":        n.Position.Y,
		})
	}

	edges := make([]any, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, map[string]any{"source": e.Source, "target": e.Target})
	}

	return map[string]any{
		"boardId": boardID,
		"ids":     ids,
		"nodes":   nodes,
		"edges":   edges,
	}
}

func boardToSync(ev realtime.Event) (string, bool) {
	if ev.BoardID == "" {
		return "", false
	}
	switch ev.Type {
	case realtime.EventTasksChanged, realtime.EventColumnsChanged, realtime.EventBoardsChanged:
		return ev.BoardID, true
	}
	return "", false
}
