package turnip

// katana is used to simulate coroutine behaviour.
// Consider the following:
// | scheduler               | task goroutine
// | ------------------------|-------------------
// | Tick()                  |
// |  go run()               |
// |  YieldLeft(resume) //1  |  Enter() //1
// |                         |  script() // enter script
// |                         |   println("a")
// |                         |   YieldRight() // 2
// | Tick()                  |
// |  YieldLeft(resume) //2  |   println("b")
// |                         |  // exit script
// |                         |  Exit() // 3
// |  // task is terminal    |
//
// Note each yield has a matching number.
// YieldLeft() does not return until the task either
// parks in YieldRight() or exits, so the scheduler
// and the task never run at the same time.
// The output "a\n" and "b\n" will be printed on separate frames.
//
// Sending resumeUnwind instead of resumeRun makes the parked
// YieldRight() report that the task must unwind its stack.
type katana struct {
	left  chan resumeSignal
	right chan void
}

type resumeSignal uint8

const (
	resumeRun resumeSignal = iota
	resumeUnwind
)

func newKatana() *katana {
	return &katana{
		left:  make(chan resumeSignal),
		right: make(chan void),
	}
}

// Yields control from the scheduler side
// to the task. It will not return until
// the task calls YieldRight() or Exit().
func (k *katana) YieldLeft(sig resumeSignal) {
	k.left <- sig
	<-k.right
}

// Yields control from the task back to
// the scheduler side. It will not return
// until YieldLeft() is called again.
func (k *katana) YieldRight() resumeSignal {
	k.right <- none
	return <-k.left
}

// Enter blocks a freshly started task goroutine
// until its first YieldLeft().
func (k *katana) Enter() resumeSignal {
	return <-k.left
}

// Exit returns control to the scheduler side for
// the last time. The task goroutine must return right after.
func (k *katana) Exit() {
	k.right <- none
}
