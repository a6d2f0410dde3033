package fiber_test

import (
	"context"
	"sync"
	"testing"

	"github.com/brickingsoft/errors"
	"github.com/brickingsoft/opc/pkg/fiber"
	"github.com/brickingsoft/rxp"
)

func TestFiberResumeThenAwait(t *testing.T) {
	fib := fiber.New()
	fib.Resume(42)
	v, err := fib.Await(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v.(int) != 42 {
		t.Fatal("value:", v)
	}
}

func TestFiberAwaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fib := fiber.New()
	_, err := fib.Await(ctx)
	if !errors.Is(err, fiber.ErrCanceled) {
		t.Fatal("err:", err)
	}
}

func TestFiberIdsDistinct(t *testing.T) {
	a := fiber.New()
	b := fiber.New()
	if a.ID() == b.ID() {
		t.Fatal("fiber ids collided:", a.ID())
	}
}

func TestSpawn(t *testing.T) {
	exec := rxp.New()
	defer func() {
		_ = exec.Close()
	}()
	ctx := rxp.With(context.Background(), exec)

	wg := new(sync.WaitGroup)
	wg.Add(1)
	fib, err := fiber.Spawn(ctx, func(fib *fiber.Fiber) {
		defer wg.Done()
		v, awaitErr := fib.Await(ctx)
		if awaitErr != nil {
			t.Error(awaitErr)
			return
		}
		t.Log("resumed with:", v)
	})
	if err != nil {
		t.Fatal(err)
	}
	fib.Resume("done")
	wg.Wait()
}

func TestSpawnWithoutExecutors(t *testing.T) {
	_, err := fiber.Spawn(context.Background(), func(fib *fiber.Fiber) {})
	if !errors.Is(err, fiber.ErrNoExecutors) {
		t.Fatal("err:", err)
	}
}
