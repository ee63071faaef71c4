package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/openpinball/cadence/clock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var (
		m  *Monitor
		vc *clock.VirtualClock
	)

	BeforeEach(func() {
		m = &Monitor{}
		vc = clock.NewVirtualClock()
		m.RegisterClock(vc.Clock)
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should report the current time", func() {
		vc.AdvanceTime(1.5)

		rec := httptest.NewRecorder()
		m.now(rec, nil)

		var rsp struct {
			Now float64 `json:"now"`
		}
		err := json.Unmarshal(rec.Body.Bytes(), &rsp)
		Expect(err).ToNot(HaveOccurred())
		Expect(rsp.Now).To(Equal(1.5))
	})

	It("should report scheduling rates", func() {
		_, err := vc.ScheduleInterval(
			func(_ clock.VTimeInSec) (clock.Action, error) {
				return clock.Continue, nil
			}, 0.5, 1)
		Expect(err).ToNot(HaveOccurred())

		vc.AdvanceTime(2.0)

		rec := httptest.NewRecorder()
		m.rate(rec, nil)

		var rsp rateRsp
		err = json.Unmarshal(rec.Body.Bytes(), &rsp)
		Expect(err).ToNot(HaveOccurred())
		Expect(rsp.Ticks).To(BeNumerically(">=", 4))
		Expect(rsp.Pending).To(Equal(1))
	})

	It("should list progress bars", func() {
		bar := m.CreateProgressBar("replay", 100)
		bar.IncrementInProgress(10)
		bar.MoveInProgressToFinished(4)

		rec := httptest.NewRecorder()
		m.listProgressBars(rec, nil)

		var bars []struct {
			Name       string `json:"name"`
			Total      uint64 `json:"total"`
			Finished   uint64 `json:"finished"`
			InProgress uint64 `json:"in_progress"`
		}
		err := json.Unmarshal(rec.Body.Bytes(), &bars)
		Expect(err).ToNot(HaveOccurred())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("replay"))
		Expect(bars[0].Finished).To(Equal(uint64(4)))
		Expect(bars[0].InProgress).To(Equal(uint64(6)))
	})

	It("should remove a completed progress bar", func() {
		bar := m.CreateProgressBar("replay", 100)
		m.CompleteProgressBar(bar)

		Expect(m.progressBars).To(BeEmpty())
	})

	It("should compute progress percentages", func() {
		bar := m.CreateProgressBar("replay", 200)
		bar.IncrementFinished(50)

		Expect(bar.Percent()).To(Equal(0.25))
	})
})
