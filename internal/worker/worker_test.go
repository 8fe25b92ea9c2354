package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"farmacia/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type fakeListas struct {
	mu     sync.Mutex
	listas map[string][]string
}

func newFakeListas() *fakeListas { return &fakeListas{listas: make(map[string][]string)} }

func (f *fakeListas) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range values {
		var s string
		switch x := v.(type) {
		case []byte:
			s = string(x)
		case string:
			s = x
		}
		f.listas[key] = append([]string{s}, f.listas[key]...)
	}
	return redis.NewIntResult(int64(len(f.listas[key])), nil)
}

func (f *fakeListas) items(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listas[key]...)
}

type handlerFunc func(ctx context.Context, payload json.RawMessage) error

func (h handlerFunc) Process(ctx context.Context, payload json.RawMessage) error { return h(ctx, payload) }

// sinEspera runs attempts back to back.
func sinEspera(ctx context.Context, maxAttempts int, fn func(int) error) error {
	var last error
	for i := 0; i < maxAttempts; i++ {
		if last = fn(i); last == nil {
			return nil
		}
	}
	return last
}

type fakeSender struct {
	enviados []EmailJobPayload
	err      error
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.enviados = append(f.enviados, EmailJobPayload{ToEmail: to, Subject: subject, Body: body})
	return nil
}

// ── Dispatcher + processJob ──────────────────────────────────────────────────

func TestDispatcher_EnqueueEmail(t *testing.T) {
	listas := newFakeListas()
	d := NewDispatcher(listas)

	require.NoError(t, d.EnqueueEmail(context.Background(), EmailJobPayload{ToEmail: "a@farmacia.test", Subject: "s", Body: "b"}))

	items := listas.items(QueueEmail)
	require.Len(t, items, 1)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(items[0]), &job))
	assert.Equal(t, "email", job.Type)
	assert.JSONEq(t, `{"to_email":"a@farmacia.test","subject":"s","body":"b"}`, string(job.Payload))
}

func encolado(t *testing.T, payload EmailJobPayload) string {
	t.Helper()
	listas := newFakeListas()
	require.NoError(t, NewDispatcher(listas).EnqueueEmail(context.Background(), payload))
	return listas.items(QueueEmail)[0]
}

func TestProcessJob_Exito(t *testing.T) {
	listas := newFakeListas()
	sender := &fakeSender{}
	handlers := &WorkerHandlers{Email: NewEmailWorker(sender)}

	processJob(context.Background(), listas, handlers, QueueEmail, encolado(t, EmailJobPayload{ToEmail: "a@farmacia.test", Subject: "s", Body: "b"}), sinEspera)

	require.Len(t, sender.enviados, 1)
	assert.Equal(t, "a@farmacia.test", sender.enviados[0].ToEmail)
	assert.Empty(t, listas.items(DLQPrefix+QueueEmail))
}

func TestProcessJob_ReintentaYLuegoDLQ(t *testing.T) {
	listas := newFakeListas()
	intentos := 0
	handlers := &WorkerHandlers{Email: handlerFunc(func(context.Context, json.RawMessage) error {
		intentos++
		return errors.New("smtp down")
	})}

	processJob(context.Background(), listas, handlers, QueueEmail, encolado(t, EmailJobPayload{ToEmail: "a@farmacia.test"}), sinEspera)

	assert.Equal(t, MaxJobAttempts, intentos)
	dlq := listas.items(DLQPrefix + QueueEmail)
	require.Len(t, dlq, 1)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(dlq[0]), &entry))
	assert.Equal(t, QueueEmail, entry.OriginalQueue)
	assert.Equal(t, "email", entry.JobType)
	assert.Equal(t, MaxJobAttempts, entry.Attempts)
	assert.Contains(t, entry.Reason, "smtp down")
}

func TestProcessJob_ExitoEnSegundoIntento(t *testing.T) {
	listas := newFakeListas()
	intentos := 0
	handlers := &WorkerHandlers{Email: handlerFunc(func(context.Context, json.RawMessage) error {
		intentos++
		if intentos == 1 {
			return errors.New("timeout")
		}
		return nil
	})}

	processJob(context.Background(), listas, handlers, QueueEmail, encolado(t, EmailJobPayload{ToEmail: "a@farmacia.test"}), sinEspera)

	assert.Equal(t, 2, intentos)
	assert.Empty(t, listas.items(DLQPrefix+QueueEmail))
}

func TestProcessJob_SobreInvalidoVaDirectoADLQ(t *testing.T) {
	listas := newFakeListas()

	processJob(context.Background(), listas, &WorkerHandlers{}, QueueEmail, "not json", sinEspera)
	processJob(context.Background(), listas, &WorkerHandlers{}, QueueEmail, `{"type":"sms","payload":{}}`, sinEspera)

	dlq := listas.items(DLQPrefix + QueueEmail)
	require.Len(t, dlq, 2)
	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(dlq[1]), &entry))
	assert.JSONEq(t, `"not json"`, string(entry.Payload))
}

func TestWithRetry_RespetaContexto(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	intentos := 0

	err := withRetry(ctx, 3, func(int) error {
		intentos++
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, intentos)
}

// ── EmailWorker ──────────────────────────────────────────────────────────────

func TestEmailWorker(t *testing.T) {
	sender := &fakeSender{}
	w := NewEmailWorker(sender)

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":""}`)), "empty recipient is dropped")
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`[]`)), "malformed payload is dropped")
	assert.Empty(t, sender.enviados)

	sender.err = errors.New("535 auth failed")
	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{"to_email":"a@farmacia.test"}`)))
}

// ── Alert scan ───────────────────────────────────────────────────────────────

type stubAlertas struct {
	lista []dto.AlertaResponse
	err   error
}

func (s stubAlertas) Listar(context.Context) ([]dto.AlertaResponse, error) { return s.lista, s.err }

type fakeEnqueuer struct{ jobs []EmailJobPayload }

func (f *fakeEnqueuer) EnqueueEmail(_ context.Context, p EmailJobPayload) error {
	f.jobs = append(f.jobs, p)
	return nil
}

func alertasDePrueba() []dto.AlertaResponse {
	vence := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	return []dto.AlertaResponse{
		{
			MedicamentoResponse: dto.MedicamentoResponse{Nombre: "Amoxicilina", Laboratorio: "Roemmers", Stock: 4, FechaVencimiento: vence},
			EstadoStock:         "Stock Crítico",
			ProximoAVencer:      true,
			DiasParaVencer:      9,
		},
		{
			MedicamentoResponse: dto.MedicamentoResponse{Nombre: "Ibuprofeno", Laboratorio: "Bayer", Stock: 100, FechaVencimiento: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			EstadoStock:         "En Stock",
			ProximoAVencer:      true,
			Vencido:             true,
			DiasParaVencer:      -14,
		},
	}
}

func TestEscanearAlertas_EncolaResumen(t *testing.T) {
	enq := &fakeEnqueuer{}
	cfg := AlertasCronConfig{Alertas: stubAlertas{lista: alertasDePrueba()}, Dispatcher: enq, Destinatario: "compras@farmacia.test"}

	require.NoError(t, EscanearAlertas(context.Background(), cfg))

	require.Len(t, enq.jobs, 1)
	job := enq.jobs[0]
	assert.Equal(t, "compras@farmacia.test", job.ToEmail)
	assert.Equal(t, "Alertas de inventario de farmacia (2)", job.Subject)
	assert.Contains(t, job.Body, "- Amoxicilina (Roemmers): stock 4 [Stock Crítico], vence 2025-06-25 (en 9 días)")
	assert.Contains(t, job.Body, "- Ibuprofeno (Bayer): stock 100 [En Stock], vence 2025-06-01 (vencido)")
}

func TestEscanearAlertas_SinDestinatarioOSinAlertas(t *testing.T) {
	enq := &fakeEnqueuer{}

	require.NoError(t, EscanearAlertas(context.Background(), AlertasCronConfig{Alertas: stubAlertas{lista: alertasDePrueba()}, Dispatcher: enq}))
	require.NoError(t, EscanearAlertas(context.Background(), AlertasCronConfig{Alertas: stubAlertas{}, Dispatcher: enq, Destinatario: "x@farmacia.test"}))

	assert.Empty(t, enq.jobs)
}

func TestEscanearAlertas_PropagaError(t *testing.T) {
	causa := errors.New("db down")

	err := EscanearAlertas(context.Background(), AlertasCronConfig{Alertas: stubAlertas{err: causa}, Dispatcher: &fakeEnqueuer{}})

	assert.ErrorIs(t, err, causa)
}

func TestStartAlertasCron(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := StartAlertasCron(ctx, AlertasCronConfig{})
	assert.NoError(t, err)
	assert.Nil(t, c, "empty schedule disables the job")

	_, err = StartAlertasCron(ctx, AlertasCronConfig{Schedule: "every tuesday"})
	assert.Error(t, err)

	c, err = StartAlertasCron(ctx, AlertasCronConfig{Schedule: "0 7 * * *", Alertas: stubAlertas{}, Dispatcher: &fakeEnqueuer{}})
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
}
