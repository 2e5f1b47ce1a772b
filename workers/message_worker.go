package workers

import (
	"context"
	"log"
	"sync"

	"github.com/groupwatchapp/groupwatchbackend/dispatch"
)

// Processor consumes one inbound message end to end.
type Processor interface {
	ProcessMessage(ctx context.Context, msg dispatch.InboundMessage) error
}

// MessageProcessor drains inbound messages through a bounded queue so a
// slow recognition call never blocks the transport callback.
type MessageProcessor struct {
	JobQueue chan dispatch.InboundMessage
	Wg       sync.WaitGroup
	StopChan chan struct{}

	dispatcher Processor
}

// NewMessageProcessor starts numWorkers goroutines draining a queue of
// queueSize inbound messages.
func NewMessageProcessor(dispatcher Processor, queueSize, numWorkers int) *MessageProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &MessageProcessor{
		JobQueue:   make(chan dispatch.InboundMessage, queueSize),
		StopChan:   make(chan struct{}),
		dispatcher: dispatcher,
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("started %d message worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

func (mp *MessageProcessor) worker(id int) {
	defer mp.Wg.Done()
	log.Printf("message worker %d started", id)
	for {
		select {
		case msg, ok := <-mp.JobQueue:
			if !ok {
				log.Printf("message worker %d stopping: job queue closed", id)
				return
			}
			if err := mp.dispatcher.ProcessMessage(context.Background(), msg); err != nil {
				log.Printf("message worker %d: failed to process message %s: %v", id, msg.MessageID, err)
			}
		case <-mp.StopChan:
			log.Printf("message worker %d stopping: stop signal received", id)
			return
		}
	}
}

// Enqueue submits a message for processing. It never blocks; when the
// queue is full the message is dropped and false is returned, leaving
// redelivery to the transport layer.
func (mp *MessageProcessor) Enqueue(msg dispatch.InboundMessage) bool {
	select {
	case mp.JobQueue <- msg:
		return true
	default:
		log.Printf("message queue full, dropping message %s", msg.MessageID)
		return false
	}
}

// Stop drains no further work and waits for in-flight messages.
func (mp *MessageProcessor) Stop() {
	close(mp.StopChan)
	mp.Wg.Wait()
}
