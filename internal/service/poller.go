package service

import (
	"log"
	"sync"
	"time"

	"github.com/BauthyBa/jetgo-private/internal/model"
)

// Poller реализует цикл опроса новых сообщений. Раз в интервал он запрашивает
// сообщения с идентификатором строго больше отметки последнего увиденного,
// передает их обработчику и продвигает отметку. Без отката интервала и без
// дедупликации сверх фильтра "строго больше": отметка корректна, потому что
// идентификаторы сообщений монотонно растут. Ошибки выборки только логируются,
// следующий такт повторяет запрос с прежней отметкой.
type Poller struct {
	interval time.Duration
	lastID   int64
	fetch    func(afterID int64) ([]model.ChatMessage, error)
	deliver  func([]model.ChatMessage)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewPoller создает цикл опроса с начальной отметкой lastID.
func NewPoller(interval time.Duration, lastID int64,
	fetch func(afterID int64) ([]model.ChatMessage, error),
	deliver func([]model.ChatMessage)) *Poller {
	return &Poller{
		interval: interval,
		lastID:   lastID,
		fetch:    fetch,
		deliver:  deliver,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run выполняет цикл опроса до вызова Stop. Запускается в отдельной горутине.
func (p *Poller) Run() {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick выполняет один шаг опроса.
func (p *Poller) tick() {
	messages, err := p.fetch(p.lastID)
	if err != nil {
		log.Printf("Ошибка при проверке новых сообщений: %v", err)
		return
	}
	if len(messages) == 0 {
		return
	}
	p.lastID = messages[len(messages)-1].ID
	p.deliver(messages)
}

// Stop останавливает цикл и дожидается завершения горутины Run.
// Повторные вызовы безопасны.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	<-p.done
}
