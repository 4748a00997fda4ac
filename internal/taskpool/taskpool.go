// Package taskpool provides a fire-and-forget worker pool for background jobs
package taskpool

import (
	"context"
	"log"
	"sync"
)

type Task func(ctx context.Context)

// Pool - фоновые задачи сервиса: трансформации и публикация событий.
// Задачи best-effort: очередь переполнена - задача дропается с логом, результат никто не ждет.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

func New(workers, queueSize int) *Pool {
	p := &Pool{
		tasks: make(chan Task, queueSize),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}

	return p
}

// Submit - неблокирующая передача задачи; false - очередь полна, задача потеряна
func (p *Pool) Submit(task Task) bool {
	select {
	case p.tasks <- task:
		return true
	default:
		log.Println("Taskpool queue is full, dropping background task")
		return false
	}
}

// Stop - закрывает очередь и ждет завершения уже принятых задач
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()

	for task := range p.tasks {
		p.runTask(id, task)
	}
}

func (p *Pool) runTask(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Taskpool worker #%d: task panicked: %v", id, r)
		}
	}()

	// фоновые задачи живут отдельно от запроса - контекст запроса сюда не пробрасываем
	task(context.Background())
}
