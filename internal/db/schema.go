package db

// SchemaSQL contains the audit store schema. Every table carries a
// session_id so one database can hold the history of many runs.
const SchemaSQL = `
    -- ==========================================================================
    -- SESSION TABLE (one row per pipeline run)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS session SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS status ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS phase ON session TYPE string;
    DEFINE FIELD IF NOT EXISTS started_at ON session TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON session TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS session_updated ON session FIELDS updated_at;

    -- ==========================================================================
    -- IDEA TABLE (every idea the generator produced, with its final status)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS idea SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON idea TYPE string;
    DEFINE FIELD IF NOT EXISTS name ON idea TYPE string;
    DEFINE FIELD IF NOT EXISTS elevator_pitch ON idea TYPE string;
    DEFINE FIELD IF NOT EXISTS target_audience ON idea TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS problem_statement ON idea TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS value_proposition ON idea TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS confidence ON idea TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS status ON idea TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON idea TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS idea_session ON idea FIELDS session_id;

    -- ==========================================================================
    -- COST_ENTRY TABLE (append-only spend ledger)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS cost_entry SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON cost_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS agent_name ON cost_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS model ON cost_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS input_tokens ON cost_entry TYPE int;
    DEFINE FIELD IF NOT EXISTS output_tokens ON cost_entry TYPE int;
    DEFINE FIELD IF NOT EXISTS cost_usd ON cost_entry TYPE float;
    DEFINE FIELD IF NOT EXISTS phase ON cost_entry TYPE string;
    DEFINE FIELD IF NOT EXISTS timestamp ON cost_entry TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS cost_session ON cost_entry FIELDS session_id;

    -- ==========================================================================
    -- SAFETY_EVENT TABLE (append-only audit log)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS safety_event SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON safety_event TYPE string;
    DEFINE FIELD IF NOT EXISTS event_type ON safety_event TYPE string;
    DEFINE FIELD IF NOT EXISTS agent_name ON safety_event TYPE string;
    DEFINE FIELD IF NOT EXISTS message ON safety_event TYPE string;
    DEFINE FIELD IF NOT EXISTS timestamp ON safety_event TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS event_session ON safety_event FIELDS session_id;

    -- ==========================================================================
    -- LESSON TABLE (institutional memory)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS lesson SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS agent_name ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS phase ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS category ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS observation ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS evidence ON lesson TYPE string;
    DEFINE FIELD IF NOT EXISTS confidence ON lesson TYPE float DEFAULT 0.5;
    DEFINE FIELD IF NOT EXISTS validation_status ON lesson TYPE string DEFAULT "unvalidated";
    DEFINE FIELD IF NOT EXISTS created_at ON lesson TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS lesson_session ON lesson FIELDS session_id;
    DEFINE INDEX IF NOT EXISTS lesson_phase ON lesson FIELDS phase;

    -- ==========================================================================
    -- GRAVEYARD TABLE (archived ideas with failure context)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS graveyard SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS session_id ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS concept_name ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS elevator_pitch ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS failure_phase ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS failure_reason ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS failure_detail ON graveyard TYPE string;
    DEFINE FIELD IF NOT EXISTS salvaged_components ON graveyard TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS resurrection_conditions ON graveyard TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS judge_score ON graveyard TYPE int DEFAULT 0;
    DEFINE FIELD IF NOT EXISTS archived_at ON graveyard TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS graveyard_session ON graveyard FIELDS session_id;
    DEFINE INDEX IF NOT EXISTS graveyard_reason ON graveyard FIELDS failure_reason;
`
