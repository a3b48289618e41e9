package servecmder

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/docgpt/pkg/config"
)

var _ = Describe("Serve Command", func() {
	BeforeEach(func() {
		prev, had := os.LookupEnv(config.APIKeyEnv)
		Expect(os.Setenv(config.APIKeyEnv, "sk-test")).To(Succeed())
		DeferCleanup(func() {
			if had {
				os.Setenv(config.APIKeyEnv, prev)
			} else {
				os.Unsetenv(config.APIKeyEnv)
			}
		})
	})

	serve := func(ctx context.Context, addr string) <-chan error {
		done := make(chan error, 1)
		cmd := NewServeCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"--listen", addr})
		go func() {
			done <- cmd.ExecuteContext(ctx)
		}()
		return done
	}

	It("returns a listen error without waiting for cancellation", func() {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(taken.Close)

		done := serve(context.Background(), taken.Addr().String())

		Eventually(done, 5*time.Second).Should(Receive(HaveOccurred()))
	})

	It("shuts down when the context is cancelled", func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := ln.Addr().String()
		Expect(ln.Close()).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := serve(ctx, addr)

		Eventually(func() error {
			resp, err := http.Get("http://" + addr + "/health")
			if err != nil {
				return err
			}
			return resp.Body.Close()
		}, 5*time.Second, 50*time.Millisecond).Should(Succeed())

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})
})
