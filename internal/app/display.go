package app

import (
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/compass/internal/config"
	"github.com/relabs-tech/compass/internal/hmc5883l"
	"github.com/relabs-tech/compass/internal/mag"
)

const (
	displayWidth  = 128
	displayHeight = 64

	// compass rose on the left half, text on the right
	roseCX     = 31
	roseCY     = 31
	roseRadius = 30
	needleLen  = 24
	textX      = 66
)

// displayData holds the latest sample for the update loop.
type displayData struct {
	mu     sync.RWMutex
	sample mag.Sample
	have   bool
}

func (d *displayData) set(s mag.Sample) {
	d.mu.Lock()
	d.sample, d.have = s, true
	d.mu.Unlock()
}

func (d *displayData) get() (mag.Sample, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sample, d.have
}

// RunDisplay shows the latest compass sample on an SSD1306 OLED.
func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus %q: %w", cfg.DisplayI2CBus, err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	logf("display", "initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		logf("display", "error showing splash: %v", err)
	}

	data := &displayData{}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	logf("display", "connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribeJSON(client, "display", cfg.TopicMag, data.set); err != nil {
		return err
	}
	logf("display", "subscribed to %s", cfg.TopicMag)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	logf("display", "starting update loop")
	for range ticker.C {
		s, have := data.get()
		if err := dev.Draw(dev.Bounds(), renderCompass(s, have), image.Point{}); err != nil {
			logf("display", "error updating display: %v", err)
		}
	}
	return nil
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawText(d *font.Drawer, x, y int, s string) {
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// renderCompass draws a rose with a needle at the sample heading, plus the
// heading and axis values. Without a sample it draws a waiting screen.
func renderCompass(s mag.Sample, have bool) *image1bit.VerticalLSB {
	img, drawer := newFrame()
	if !have {
		drawText(drawer, 20, 26, "Compass")
		drawText(drawer, 20, 39, "Waiting...")
		return img
	}

	drawRose(img)
	a := float64(s.Heading) * math.Pi / 180
	// Screen y grows downwards; 0° points up and angles turn clockwise.
	drawLine(img, roseCX, roseCY,
		roseCX+int(math.Round(needleLen*math.Sin(a))),
		roseCY-int(math.Round(needleLen*math.Cos(a))))

	drawText(drawer, textX, 13, fmt.Sprintf("HDG %3d", s.Heading))
	drawText(drawer, textX, 26, "X "+hmc5883l.FormatFixed2(s.X))
	drawText(drawer, textX, 39, "Y "+hmc5883l.FormatFixed2(s.Y))
	drawText(drawer, textX, 52, "Z "+hmc5883l.FormatFixed2(s.Z))
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, drawer := newFrame()
	drawText(drawer, 29, 26, "HMC5883L")
	drawText(drawer, 36, 43, "Compass")
	return img
}

func drawRose(img *image1bit.VerticalLSB) {
	for deg := 0; deg < 360; deg += 3 {
		a := float64(deg) * math.Pi / 180
		img.Set(roseCX+int(math.Round(roseRadius*math.Sin(a))),
			roseCY-int(math.Round(roseRadius*math.Cos(a))), image1bit.On)
	}
	// north tick
	for y := roseCY - roseRadius; y < roseCY-roseRadius+4; y++ {
		img.Set(roseCX, y, image1bit.On)
	}
}

// drawLine is Bresenham's line between two points, inclusive.
func drawLine(img *image1bit.VerticalLSB, x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		img.Set(x0, y0, image1bit.On)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
